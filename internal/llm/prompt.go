package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Brief describes the app and the voice of the explanation
type Brief struct {
	AppType string
	Tone    string
	Length  string
	Persona string
}

// DefaultBrief is the mascot copywriter brief
var DefaultBrief = Brief{
	AppType: "Twitter,Xの投稿から個人情報が漏洩するリスクを診断するアプリ",
	Tone:    "親しみやすく安心感がある",
	Length:  "200文字程度",
	Persona: "青い髪のツインテールの女の子。ネットの安全を守るマスコット。" +
		"一人称は『わたし』。語尾は柔らかく、難語は使わない。" +
		"結論→理由→対策の順で、ユーザーを不安にさせず前向きに促す。" +
		"セリフ風で出力。",
}

// SystemPrompt gives the model the analysis result and both percentages.
// With redact set, contact identifier values are replaced by a mask; only
// their counts reach the provider.
func SystemPrompt(report model.Report, redact bool) string {
	result := report.Result
	if redact {
		result = maskContacts(result)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		resultJSON = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("あなたは" + DefaultBrief.AppType + "の結果に使用する説明文を作成するプロのコピーライターです。\n")
	b.WriteString("以下の検査結果をもとに、ユーザーにわかりやすく説明文を作成してください。\n")
	b.WriteString(string(resultJSON))
	b.WriteString("\n")
	fmt.Fprintf(&b, "個人情報（直接）の割合: %.0f%%\n", report.Score.Direct)
	fmt.Fprintf(&b, "個人情報（間接）の割合: %d%%\n", report.Score.Indirect)
	if redact {
		b.WriteString("メールアドレス・電話番号・郵便番号の値そのものは説明文に書かないでください。\n")
	}
	return b.String()
}

// BuildPrompt constructs the user prompt from the brief
func BuildPrompt() string {
	return fmt.Sprintf(`以下の条件に従って診断アプリの説明文を作成してください。

【条件】
- アプリの種類：%s
- 説明文の用途：診断結果の説明
- 文字数：%s
- トーン：%s
- ユーザー層：%s

出力は説明文のみ。`, DefaultBrief.AppType, DefaultBrief.Length, DefaultBrief.Tone, DefaultBrief.Persona)
}

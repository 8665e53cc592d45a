package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

func TestBuild_Empty(t *testing.T) {
	result := NewAggregator().Build(Input{})

	assert.Empty(t, result)
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestBuild_AllCategories(t *testing.T) {
	entities := model.Entities{
		model.LabelPerson: {"田中さん", "佐藤さん"},
		model.LabelAge:    {"25歳", "20-30歳", "30〜40代", "40代"},
	}
	in := Input{
		Entities: entities,
		Contacts: model.Contacts{
			Emails: []string{"a@example.com"},
			Phones: []string{"090-1234-5678"},
		},
		Dates: []model.NormalizedDate{{Original: "明日", ISO: "2025-01-11T12:00:00+09:00", IsFuture: true}},
		Places: []model.PlacePair{
			{Text: "渋谷駅", Resolution: model.PlaceResolution{Category: model.PlaceStation}},
			{Text: "聖路加国際病院", Resolution: model.PlaceResolution{Category: model.PlaceHospital}},
			{Text: "浅草寺", Resolution: model.PlaceResolution{Category: model.PlaceTouristSpot}},
			{Text: "慶應義塾大学", Resolution: model.PlaceResolution{Category: model.PlaceSchool}},
			{Text: "謎の場所", Resolution: model.PlaceResolution{Category: model.PlaceUnknown}},
			{Text: "新宿駅", Resolution: model.PlaceResolution{Category: model.PlaceStation}},
		},
	}

	result := NewAggregator().Build(in)

	assert.Equal(t, []string{"田中さん", "佐藤さん"}, result[model.CategoryPerson].Strings())
	assert.Equal(t, []string{"25歳", "40代"}, result[model.CategoryAge].Strings())
	assert.Equal(t, 1, result.Count(model.CategoryDate))
	assert.Equal(t, 1, result.Count(model.CategoryEmail))
	assert.Equal(t, 1, result.Count(model.CategoryPhone))
	assert.Equal(t, 0, result.Count(model.CategoryPostal))
	assert.NotContains(t, result, model.CategoryPostal)
	assert.Equal(t, []string{"渋谷駅", "新宿駅"}, result[model.CategoryStation].Strings())
	assert.Equal(t, 1, result.Count(model.CategoryHospital))
	assert.Equal(t, 1, result.Count(model.CategoryTouristSpot))
	assert.NotContains(t, result, model.Category("school"))
	assert.Equal(t, []string{"謎の場所"}, result[model.CategoryPlace].Strings())
}

func TestBuild_WireShape(t *testing.T) {
	result := NewAggregator().Build(Input{
		Entities: model.Entities{model.LabelPerson: {"田中さん"}},
		Contacts: model.Contacts{Phones: []string{"03-1234-5678"}},
	})

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"person":[["田中さん"],1],"phone":[["03-1234-5678"],1]}`, string(data))
}

func TestBuild_AgesAllRanges(t *testing.T) {
	result := NewAggregator().Build(Input{
		Entities: model.Entities{model.LabelAge: {"20-30歳", "10~20代"}},
	})

	assert.NotContains(t, result, model.CategoryAge)
}

func TestDateSpans(t *testing.T) {
	entities := model.Entities{model.LabelDate: {"明日", "来週", "去年"}}

	assert.Equal(t, []string{"明日", "来週", "去年"}, DateSpans(entities, model.ScopeAll))
	assert.Equal(t, []string{"明日"}, DateSpans(entities, model.ScopeFirst))
	assert.Empty(t, DateSpans(model.Entities{}, model.ScopeFirst))
}

func TestPlaceSpans(t *testing.T) {
	entities := model.Entities{
		"hospital":     {"聖路加国際病院"},
		"City":         {"渋谷区", "港区"},
		"station":      {"渋谷駅"},
		"tourist_spot": {"東京タワー"},
		"Person":       {"田中さん"},
	}

	// Label order is fixed: City comes before station, hospital and tourist_spot
	assert.Equal(t, []string{"渋谷区", "港区", "渋谷駅", "聖路加国際病院", "東京タワー"}, PlaceSpans(entities, model.ScopeAll))
	assert.Equal(t, []string{"渋谷区"}, PlaceSpans(entities, model.ScopeFirst))
	assert.Empty(t, PlaceSpans(model.Entities{"Person": {"田中さん"}}, model.ScopeAll))
}

func TestParseScope(t *testing.T) {
	scope, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, model.ScopeAll, scope)

	scope, err = ParseScope("first")
	require.NoError(t, err)
	assert.Equal(t, model.ScopeFirst, scope)

	_, err = ParseScope("some")
	assert.Error(t, err)
}

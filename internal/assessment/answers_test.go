package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnswers_RejectsNonJSONValues(t *testing.T) {
	_, err := NewAnswers(map[string]any{"bad": make(chan int)})
	require.Error(t, err)
}

func TestAnswers_Accessors(t *testing.T) {
	a, err := NewAnswers(map[string]any{
		"sector":        "Fintech",
		"funding_need":  "25000",
		"ticket":        50000.0,
		"skills_needed": []any{"Finance", " legal ", ""},
		"focus":         "health, energy",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, a.Len())
	assert.Equal(t, "Fintech", a.Text("sector"))
	assert.Equal(t, "50000", a.Text("ticket"))
	assert.Equal(t, []string{"finance", "legal"}, a.Strings("skills_needed"))
	assert.Equal(t, []string{"health", "energy"}, a.Strings("focus"))

	n, ok := a.Number("funding_need")
	require.True(t, ok)
	assert.Equal(t, 25000.0, n)

	_, ok = a.Number("sector")
	assert.False(t, ok)

	assert.Empty(t, a.Text("missing"))
	assert.Empty(t, a.Strings("missing"))
}

func TestAnswers_ZeroValue(t *testing.T) {
	var a Answers
	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Map())

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestAnswers_JSONInsideStruct(t *testing.T) {
	a, err := NewAnswers(map[string]any{"stage": "growth"})
	require.NoError(t, err)

	in := Assessment{ID: "a1", Kind: KindSME, Answers: a}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Assessment
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "growth", out.Answers.Text("stage"))
	assert.Equal(t, KindSME, out.Kind)
}

func TestAnswers_ValueScan(t *testing.T) {
	a, err := NewAnswers(map[string]any{"stage": "idea"})
	require.NoError(t, err)

	v, err := a.Value()
	require.NoError(t, err)

	var back Answers
	require.NoError(t, back.Scan(v))
	assert.Equal(t, "idea", back.Text("stage"))

	require.NoError(t, back.Scan(`{"stage":"growth"}`))
	assert.Equal(t, "growth", back.Text("stage"))

	require.NoError(t, back.Scan(nil))
	assert.Equal(t, 0, back.Len())

	require.Error(t, back.Scan(42))
	require.Error(t, back.Scan([]byte("not json")))
}

func TestRecommendations_ValueScan(t *testing.T) {
	recs := Recommendations{{TargetID: "f-1", TargetType: "funder", Title: "Seed Fund", Score: 3}}
	v, err := recs.Value()
	require.NoError(t, err)

	var back Recommendations
	require.NoError(t, back.Scan(v))
	assert.Equal(t, recs, back)

	v, err = Recommendations(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	require.Error(t, back.Scan(1))
}

func TestLookupAndAll(t *testing.T) {
	for _, k := range []Kind{KindSME, KindDonor, KindInvestor, KindProfessional} {
		s, ok := Lookup(k)
		require.True(t, ok, k)
		assert.Equal(t, k, s.Kind)
		assert.NotEmpty(t, s.Table)
		assert.NotEmpty(t, s.RecommendFunction)
		assert.NotEmpty(t, s.Questions)
	}

	_, ok := Lookup("nonprofit")
	assert.False(t, ok)

	all := All()
	require.Len(t, all, 4)
	assert.Equal(t, KindDonor, all[0].Kind)
}

package model

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestMergeUsageAllNil(t *testing.T) {
	require.Nil(t, MergeUsage(nil, nil, nil))
	require.Nil(t, MergeUsage())
}

func TestMergeUsageNilIdentity(t *testing.T) {
	u := NewTokenUsage(10, 5)
	got := MergeUsage(nil, &u, nil)
	require.NotNil(t, got)
	require.Equal(t, u, *got)
}

func TestMergeUsageSums(t *testing.T) {
	a := NewTokenUsage(10, 5)
	b := NewTokenUsage(3, 7)
	got := MergeUsage(&a, &b)
	require.NotNil(t, got)
	require.Equal(t, uint32(13), got.PromptTokens)
	require.Equal(t, uint32(12), got.CompletionTokens)
	require.Equal(t, uint32(25), got.TotalTokens)
}

func genUsage() gopter.Gen {
	return gopter.CombineGens(
		gen.UInt32Range(0, 1<<20),
		gen.UInt32Range(0, 1<<20),
	).Map(func(vs []interface{}) TokenUsage {
		return NewTokenUsage(vs[0].(uint32), vs[1].(uint32))
	})
}

func TestTokenUsageProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200

	properties := gopter.NewProperties(params)

	properties.Property("total is prompt plus completion", prop.ForAll(
		func(u TokenUsage) bool {
			return u.TotalTokens == u.PromptTokens+u.CompletionTokens
		},
		genUsage(),
	))

	properties.Property("add is commutative", prop.ForAll(
		func(a, b TokenUsage) bool {
			return a.Add(b) == b.Add(a)
		},
		genUsage(), genUsage(),
	))

	properties.Property("add is associative", prop.ForAll(
		func(a, b, c TokenUsage) bool {
			return a.Add(b).Add(c) == a.Add(b.Add(c))
		},
		genUsage(), genUsage(), genUsage(),
	))

	properties.Property("merge preserves totals", prop.ForAll(
		func(a, b TokenUsage) bool {
			got := MergeUsage(&a, &b)
			return got != nil && got.TotalTokens == a.TotalTokens+b.TotalTokens
		},
		genUsage(), genUsage(),
	))

	properties.TestingRun(t)
}

package preprocessing

import (
	"math"
	"strconv"

	"github.com/spaolacci/murmur3"

	"github.com/YuminosukeSato/featprep/core/frame"
	"github.com/YuminosukeSato/featprep/feature"
)

// hashingState は学習時のハッシュ列構成
type hashingState struct {
	Structure frame.Structure
}

// hashBucket maps token to a bucket in [0, n) and a sign of ±1 using signed
// 32-bit MurmurHash3 with seed 0.
func hashBucket(token string, n int) (int, float64) {
	h := int32(murmur3.Sum32([]byte(token)))
	sign := 1.0
	if h < 0 {
		sign = -1.0
	}
	if h == math.MinInt32 {
		// |MinInt32| は int32 に収まらない
		return int((math.MaxInt32 - int64(n-1)) % int64(n)), sign
	}
	if h < 0 {
		h = -h
	}
	return int(int64(h) % int64(n)), sign
}

// hashValue は値を文字の並びとして扱い、各文字の符号付きバケットを合計する
func hashValue(value string, n int) []float64 {
	vec := make([]float64, n)
	for _, r := range value {
		bucket, sign := hashBucket(string(r), n)
		vec[bucket] += sign
	}
	return vec
}

func hashingColumnNames(col string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = col + strconv.Itoa(i)
	}
	return names
}

// encodeHashing hashes each distinct value once into n_features buckets
// named <col><i>. Every character of the value is a token; collisions and
// repeated characters accumulate.
func encodeHashing(X *frame.Table, g *feature.Group) (*frame.Frame, error) {
	return encodeGroup(X, g, func(i int, s *frame.Series) (*frame.Frame, error) {
		n := g.Params[i].(feature.HashingParams).NFeatures
		return encodeUnique(s, X.Index(), hashingColumnNames(s.Name, n), func(value string) []float64 {
			return hashValue(value, n)
		})
	})
}

func fitHashing(X *frame.Table, g *feature.Group) (*frame.Frame, hashingState, error) {
	out, err := encodeHashing(X, g)
	if err != nil {
		return nil, hashingState{}, err
	}
	return out, hashingState{Structure: out.Structure()}, nil
}

func applyHashing(X *frame.Table, g *feature.Group, state hashingState) (*frame.Frame, error) {
	out, err := encodeHashing(X, g)
	if err != nil {
		return nil, err
	}
	return alignZero(out, state.Structure), nil
}

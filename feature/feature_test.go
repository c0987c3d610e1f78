package feature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  Strategy
	}{
		{"one-hot", OneHot},
		{"One Hot Encoding", OneHot},
		{"ONE_HOT", OneHot},
		{"hashing", Hashing},
		{"count_vectorizing", CountVectorizing},
		{"count-vectorizing", CountVectorizing},
		{"tf_idf", TfIdf},
		{"TF-IDF", TfIdf},
		{"tfidf", TfIdf},
		{"text_similarity", TextSimilarity},
		{"scaling", Scaling},
		{"none", None},
		{"", None},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStrategy("word2vec")
	var validationErr *errors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestParseKwargs(t *testing.T) {
	kw, err := ParseKwargs("lowercase=false, max_features=10, max_df=0.9, analyzer=char_wb, vocabulary=none")
	require.NoError(t, err)
	assert.Equal(t, false, kw["lowercase"])
	assert.Equal(t, 10, kw["max_features"])
	assert.Equal(t, 0.9, kw["max_df"])
	assert.Equal(t, "char_wb", kw["analyzer"])
	assert.Nil(t, kw["vocabulary"])
	assert.Contains(t, kw, "vocabulary")

	kw, err = ParseKwargs("ngram_range=1;2|tuple|int,stop_words=the;a|list|str,min_df=2|float")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, 2}, kw["ngram_range"])
	assert.Equal(t, []interface{}{"the", "a"}, kw["stop_words"])
	assert.Equal(t, 2.0, kw["min_df"])

	kw, err = ParseKwargs("")
	require.NoError(t, err)
	assert.Empty(t, kw)
}

func TestParseKwargsErrors(t *testing.T) {
	for _, input := range []string{
		"lowercase",
		"=1",
		"max_features=ten|int",
		"binary=maybe|bool",
		"x=1|complex",
		"x=1;2|set|int",
		"x=1|a|b|c",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseKwargs(input)
			assert.Error(t, err)
		})
	}
}

func TestParseBucketCount(t *testing.T) {
	n, err := ParseBucketCount("8")
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n, err = ParseBucketCount("16.0")
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	for _, input := range []string{"", "abc", "2.5", "0", "-3"} {
		_, err := ParseBucketCount(input)
		var validationErr *errors.ValidationError
		assert.True(t, errors.As(err, &validationErr), input)
	}
}

func TestBindVectorizerParams(t *testing.T) {
	kw, err := ParseKwargs("ngram_range=1;2|tuple|int,stop_words=english,min_df=2,max_df=0.8")
	require.NoError(t, err)
	p, err := BindVectorizerParams(kw, false)
	require.NoError(t, err)
	assert.Equal(t, 1, p.NgramMin)
	assert.Equal(t, 2, p.NgramMax)
	assert.Contains(t, p.StopWords, "the")
	assert.Equal(t, 2.0, p.MinDF.Resolve(10))
	assert.Equal(t, 8.0, p.MaxDF.Resolve(10))
	assert.False(t, p.IsTfIdf())

	kw, err = ParseKwargs("ngram_range=1")
	require.NoError(t, err)
	p, err = BindVectorizerParams(kw, true)
	require.NoError(t, err)
	assert.Equal(t, 1, p.NgramMax)
	assert.Equal(t, "l2", p.Norm)
	assert.True(t, p.UseIDF)

	kw, err = ParseKwargs("norm=none")
	require.NoError(t, err)
	p, err = BindVectorizerParams(kw, true)
	require.NoError(t, err)
	assert.Equal(t, "", p.Norm)
}

func TestBindVectorizerParamsRejects(t *testing.T) {
	for _, tc := range []struct {
		args  string
		tfidf bool
	}{
		{"unknown=1", false},
		{"norm=l2", false},
		{"analyzer=sentence", false},
		{"ngram_range=2;1|tuple|int", false},
		{"max_df=1.5", false},
		{"lowercase=1", false},
		{"norm=l3", true},
	} {
		t.Run(tc.args, func(t *testing.T) {
			kw, err := ParseKwargs(tc.args)
			require.NoError(t, err)
			_, err = BindVectorizerParams(kw, tc.tfidf)
			var validationErr *errors.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestClassify(t *testing.T) {
	specs := Specs{
		{Name: "colorA", Strategy: OneHot},
		{Name: "id", Strategy: Hashing, Args: "4"},
		{Name: "textB", Strategy: CountVectorizing, Args: "ngram_range=1"},
		{Name: "amountC", Strategy: Scaling},
		{Name: "raw", Strategy: None},
	}
	groups, err := Classify(specs)
	require.NoError(t, err)

	assert.True(t, groups.Get(OneHot).Active)
	assert.False(t, groups.Get(TfIdf).Active)
	assert.Equal(t, []string{"id"}, groups.Get(Hashing).Columns())
	assert.Equal(t, HashingParams{NFeatures: 4}, groups.Get(Hashing).Params[0])

	vp, ok := groups.Get(CountVectorizing).Params[0].(VectorizerParams)
	require.True(t, ok)
	assert.Equal(t, CountVectorizing, vp.strategy())

	var active []Strategy
	for _, g := range groups.Active() {
		active = append(active, g.Strategy)
	}
	assert.Equal(t, []Strategy{OneHot, Hashing, CountVectorizing, Scaling, None}, active)
}

func TestClassifyErrors(t *testing.T) {
	_, err := Classify(Specs{{Name: "a"}, {Name: "a"}})
	var validationErr *errors.ValidationError
	assert.True(t, errors.As(err, &validationErr))

	_, err = Classify(Specs{{Name: "h", Strategy: Hashing, Args: "many"}})
	assert.True(t, errors.As(err, &validationErr))

	_, err = Classify(Specs{{Name: "v", Strategy: TfIdf, Args: "bogus"}})
	assert.True(t, errors.As(err, &validationErr))

	_, err = Classify(Specs{{Name: "s", Strategy: Strategy(42)}})
	assert.True(t, errors.As(err, &validationErr))
}

func TestReadCSV(t *testing.T) {
	input := `name,variable_type,feature_strategy,strategy_args
colorA,categorical,one hot encoding,
textB,text,count_vectorizing,"ngram_range=1;2|tuple|int,min_df=1"
amountC,numeric,scaling,
`
	specs, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, OneHot, specs[0].Strategy)
	assert.Equal(t, "ngram_range=1;2|tuple|int,min_df=1", specs[1].Args)
	assert.Equal(t, "numeric", specs[2].VariableType)

	_, err = ReadCSV(strings.NewReader("name,variable_type\na,b\n"))
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))

	_, err = ReadCSV(strings.NewReader("name,feature_strategy\na,magic\n"))
	assert.Error(t, err)
}

func TestReadYAML(t *testing.T) {
	doc := `
features:
  - name: colorA
    variable_type: categorical
    feature_strategy: one-hot
  - name: idD
    feature_strategy: hashing
    strategy_args: "8"
`
	specs, err := ReadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, OneHot, specs[0].Strategy)
	assert.Equal(t, Hashing, specs[1].Strategy)
	assert.Equal(t, "8", specs[1].Args)

	list := `
- name: a
  feature_strategy: scaling
- name: b
`
	specs, err = ReadYAML(strings.NewReader(list))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, specs.Names())
	assert.Equal(t, None, specs[1].Strategy)

	_, err = ReadYAML(strings.NewReader("- name: a\n- name: a\n"))
	assert.Error(t, err)

	_, err = ReadYAML(strings.NewReader(""))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

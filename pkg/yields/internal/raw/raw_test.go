package raw

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, doc string) interface{} {
	t.Helper()
	var v interface{}
	decoder := json.NewDecoder(strings.NewReader(doc))
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&v))
	return v
}

func TestItems(t *testing.T) {
	t.Run("top-level array", func(t *testing.T) {
		items := Items(parse(t, `[{"a":1},{"a":2}]`))
		require.Len(t, items, 2)
	})

	t.Run("dotted path", func(t *testing.T) {
		items := Items(parse(t, `{"data":{"lp_list":[{"a":1}]}}`), "data.lp_list")
		require.Len(t, items, 1)
	})

	t.Run("first matching path wins", func(t *testing.T) {
		payload := parse(t, `{"reserves":[{"a":1}],"data":[{"a":2},{"a":3}]}`)
		items := Items(payload, "reserves", "data")
		require.Len(t, items, 1)
	})

	t.Run("no match", func(t *testing.T) {
		require.Empty(t, Items(parse(t, `{"x":1}`), "data"))
		require.Empty(t, Items(nil, "data"))
	})
}

func TestNum(t *testing.T) {
	obj := map[string]interface{}{
		"f": 1.5,
		"i": 7,
		"n": json.Number("42.5"),
		"s": "3.25",
		"x": "not a number",
	}
	require.Equal(t, 1.5, Num(obj, "f"))
	require.Equal(t, 7.0, Num(obj, "i"))
	require.Equal(t, 42.5, Num(obj, "n"))
	require.Equal(t, 3.25, Num(obj, "s"))
	require.Zero(t, Num(obj, "x"))
	require.Zero(t, Num(obj, "missing"))
	// First present key wins.
	require.Equal(t, 1.5, Num(obj, "missing", "f", "i"))
}

func TestStr(t *testing.T) {
	obj := map[string]interface{}{"a": "hello", "b": "", "c": 3}
	require.Equal(t, "hello", Str(obj, "a"))
	require.Equal(t, "hello", Str(obj, "b", "a"))
	require.Empty(t, Str(obj, "c"))
	require.Empty(t, Str(obj, "missing"))
}

package bodyparser

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testLimit = 1024

// captureBody runs the full parser chain and returns what the handler saw.
func captureBody(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, any, bool) {
	t.Helper()

	var (
		seen   any
		parsed bool
	)
	handler := URLEncoded(testLimit)(JSON(testLimit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, parsed = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen, parsed
}

func newRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/movie", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSONBodyIsParsed(t *testing.T) {
	rec, body, ok := captureBody(t, newRequest(`{"name":"Heat","time":["20:00"],"rating":8.3}`, "application/json"))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, ok)
	require.Equal(t, map[string]any{
		"name":   "Heat",
		"time":   []any{"20:00"},
		"rating": json.Number("8.3"),
	}, body)
}

func TestJSONWithCharset(t *testing.T) {
	rec, _, ok := captureBody(t, newRequest(`{"a":1}`, "application/json; charset=utf-8"))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, ok)

	rec, _, _ = captureBody(t, newRequest(`{"a":1}`, "application/json; charset=latin1"))
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestJSONRejectsInvalidBodies(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed", `{"name":`},
		{"primitive top level", `"just a string"`},
		{"trailing data", `{"a":1} {"b":2}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _, ok := captureBody(t, newRequest(tc.body, "application/json"))
			require.False(t, ok)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.Equal(t, false, resp["success"])
			require.Contains(t, resp["error"], "invalid JSON body")
		})
	}
}

func TestJSONBlankBodyBecomesEmptyObject(t *testing.T) {
	rec, body, ok := captureBody(t, newRequest("   ", "application/json"))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, ok)
	require.Equal(t, map[string]any{}, body)
}

func TestBodyLimit(t *testing.T) {
	big := `{"name":"` + strings.Repeat("x", testLimit) + `"}`
	rec, _, _ := captureBody(t, newRequest(big, "application/json"))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	// unknown length still hits the limit while reading
	req := newRequest(big, "application/json")
	req.ContentLength = -1
	rec, _, _ = captureBody(t, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUnknownContentTypePassesThrough(t *testing.T) {
	rec, _, ok := captureBody(t, newRequest("plain text", "text/plain"))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.False(t, ok)

	rec, _, ok = captureBody(t, httptest.NewRequest(http.MethodGet, "/api/movies", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.False(t, ok)
}

func TestFormBodyIsParsedIntoNestedMap(t *testing.T) {
	form := "name=Heat&time[]=18%3A00&time[]=21%3A00&rating=8.3&meta[director][name]=Michael+Mann"
	rec, body, ok := captureBody(t, newRequest(form, "application/x-www-form-urlencoded"))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, ok)
	require.Equal(t, map[string]any{
		"name":   "Heat",
		"time":   []any{"18:00", "21:00"},
		"rating": "8.3",
		"meta": map[string]any{
			"director": map[string]any{"name": "Michael Mann"},
		},
	}, body)
}

func TestParseForm(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected map[string]any
	}{
		{"empty", "", map[string]any{}},
		{"repeated plain key", "a=1&a=2", map[string]any{"a": []any{"1", "2"}}},
		{"indexed array", "a[1]=y&a[0]=x", map[string]any{"a": []any{"x", "y"}}},
		{"sparse indices compact", "a[3]=z&a[1]=y", map[string]any{"a": []any{"y", "z"}}},
		{"index above limit stays a key", "a[21]=x", map[string]any{"a": map[string]any{"21": "x"}}},
		{"objects in array", "a[][b]=1&a[][b]=2", map[string]any{"a": []any{
			map[string]any{"b": "1"},
			map[string]any{"b": "2"},
		}}},
		{"append after index", "a[1]=x&a[]=y", map[string]any{"a": []any{"x", "y"}}},
		{"append after sparse indices", "a[0]=x&a[5]=y&a[]=z", map[string]any{"a": []any{"x", "y", "z"}}},
		{"mixed array and key", "a[]=1&a[x]=2", map[string]any{"a": map[string]any{"0": "1", "x": "2"}}},
		{"leading bracket", "[a]=b", map[string]any{"a": "b"}},
		{"unbalanced bracket", "a[b=c", map[string]any{"a[b": "c"}},
		{"depth limit", "a[b][c][d][e][f][g][h]=1", map[string]any{"a": map[string]any{
			"b": map[string]any{"c": map[string]any{"d": map[string]any{"e": map[string]any{
				"f": map[string]any{"[g][h]": "1"},
			}}}},
		}}},
		{"key without value", "flag&x=", map[string]any{"flag": "", "x": ""}},
		{"root numeric key stays", "0=a", map[string]any{"0": "a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseForm(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestParseFormErrors(t *testing.T) {
	_, err := ParseForm("a=%zz")
	var parseErr *Error
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, http.StatusBadRequest, parseErr.Status)

	_, err = ParseForm(strings.Repeat("a=1&", parameterLimit+1))
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, http.StatusRequestEntityTooLarge, parseErr.Status)
}

func TestDecodeAndEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	require.True(t, Empty(req))

	var dst struct{ Name string }
	require.ErrorIs(t, Decode(req, &dst), ErrNoBody)

	req = req.WithContext(WithBody(req.Context(), map[string]any{"Name": "Heat"}))
	require.False(t, Empty(req))
	require.NoError(t, Decode(req, &dst))
	require.Equal(t, "Heat", dst.Name)

	req = req.WithContext(WithBody(req.Context(), map[string]any{}))
	require.True(t, Empty(req))
}

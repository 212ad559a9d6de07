package decoder

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type query struct {
	Title string `schema:"title"`
	Page  int    `schema:"page"`
	Limit int    `schema:"limit"`
}

func TestDecode(t *testing.T) {
	d := New()
	var q query
	fieldErrs, err := d.Decode(&q, url.Values{"title": {"alien"}, "page": {"2"}, "unknown": {"x"}})
	require.NoError(t, err)
	assert.Nil(t, fieldErrs)
	assert.Equal(t, query{Title: "alien", Page: 2}, q)
}

func TestDecodeConversionErrors(t *testing.T) {
	d := New()
	var q query
	fieldErrs, err := d.Decode(&q, url.Values{"page": {"two"}, "limit": {"ten"}})
	require.NoError(t, err)
	assert.Len(t, fieldErrs, 2)
	assert.Contains(t, fieldErrs, "page")
	assert.Contains(t, fieldErrs, "limit")
}

func TestDecodeInvalidTarget(t *testing.T) {
	d := New()
	_, err := d.Decode(query{}, url.Values{})
	assert.Error(t, err)
}

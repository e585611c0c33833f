package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisiblePages(t *testing.T) {
	gap := PageLink{Ellipsis: true}
	n := func(i int) PageLink { return PageLink{Number: i} }

	testCases := map[string]struct {
		current, total int
		want           []PageLink
	}{
		"single page":      {current: 1, total: 1, want: nil},
		"no pages":         {current: 1, total: 0, want: nil},
		"two pages":        {current: 1, total: 2, want: []PageLink{n(1), n(2)}},
		"start of many":    {current: 1, total: 10, want: []PageLink{n(1), n(2), n(3), gap, n(10)}},
		"middle of many":   {current: 5, total: 10, want: []PageLink{n(1), gap, n(3), n(4), n(5), n(6), n(7), gap, n(10)}},
		"end of many":      {current: 10, total: 10, want: []PageLink{n(1), gap, n(8), n(9), n(10)}},
		"no gap near left": {current: 4, total: 10, want: []PageLink{n(1), n(2), n(3), n(4), n(5), n(6), gap, n(10)}},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, VisiblePages(tc.current, tc.total))
		})
	}
}

func TestPaginationControls(t *testing.T) {
	p := Pagination{CurrentPage: 1, TotalPages: 3}
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p.CurrentPage = 3
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestEmployeeDecodesWireFormat(t *testing.T) {
	body := `{
		"id": "emp-1",
		"firstName": "John",
		"lastName": "Doe",
		"email": "john@example.com",
		"phone": "+1234567890",
		"title": "Engineer",
		"department": "Engineering",
		"location": "Remote",
		"hireDate": "2021-03-04T00:00:00.000Z",
		"salary": 85000.5,
		"createdAt": "2021-03-04T10:00:00Z",
		"updatedAt": "2021-03-05T10:00:00Z"
	}`

	var e Employee
	require.NoError(t, json.Unmarshal([]byte(body), &e))
	assert.Equal(t, "emp-1", e.ID)
	assert.Equal(t, "John Doe", e.FullName())
	assert.Equal(t, NewDate(2021, time.March, 4), e.HireDate)
	assert.Equal(t, "2021-03-04", e.HireDate.String())
	assert.Equal(t, 85000.5, e.Salary)

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"hireDate":"2021-03-04"`)
	assert.NotContains(t, string(out), `"avatar"`)
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("next tuesday")
	assert.Error(t, err)
}

func TestListParamsKey(t *testing.T) {
	p := InitialPagination()
	f := Filters{Search: "john"}

	key := NewListParams(p, f)
	assert.Equal(t, ListParams{Page: 1, Limit: DefaultPageSize, Search: "john"}, key)
	assert.Equal(t, f, key.Filters())
	assert.True(t, key == NewListParams(p, f))
	assert.True(t, f.Active())
	assert.False(t, Filters{}.Active())
}

package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestaurantValidate(t *testing.T) {
	name := "Bistro"
	long := strings.Repeat("x", MaxNameLength+1)
	city := strings.Repeat("c", MaxTextLength)

	tests := []struct {
		name    string
		in      Restaurant
		wantErr string
	}{
		{name: "valid", in: Restaurant{ID: "851f799f-0852-439e-b9b2-df92c43e7672", Name: &name, City: &city}},
		{name: "missing id", in: Restaurant{Name: &name}, wantErr: "id is required"},
		{name: "blank id", in: Restaurant{ID: "   "}, wantErr: "id is required"},
		{name: "id too long", in: Restaurant{ID: strings.Repeat("a", 37)}, wantErr: "id must be at most 36"},
		{name: "name too long", in: Restaurant{ID: "r1", Name: &long}, wantErr: "name must be at most 80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRestaurantPatchDistinguishesAbsentAndNull(t *testing.T) {
	var p RestaurantPatch
	require.NoError(t, json.Unmarshal([]byte(`{"rating": 4, "site": null, "id": "ignored"}`), &p))

	assert.True(t, p.Rating.Set)
	assert.False(t, p.Rating.Null)
	assert.Equal(t, 4, p.Rating.Value)
	assert.True(t, p.Site.Set)
	assert.True(t, p.Site.Null)
	assert.False(t, p.Name.Set)
}

func TestRestaurantPatchApply(t *testing.T) {
	rating := 1
	name := "Old"
	site := "http://old.example"
	lat := 19.43
	r := Restaurant{ID: "r1", Rating: &rating, Name: &name, Site: &site, Lat: &lat}

	p := RestaurantPatch{
		Rating: Some(3),
		Site:   Null[string](),
	}
	p.Apply(&r)

	require.NotNil(t, r.Rating)
	assert.Equal(t, 3, *r.Rating)
	assert.Nil(t, r.Site)
	require.NotNil(t, r.Name)
	assert.Equal(t, "Old", *r.Name)
	require.NotNil(t, r.Lat)
	assert.Equal(t, 19.43, *r.Lat)
	assert.Equal(t, "r1", r.ID)

	// the patch keeps its own copy of the value
	*r.Rating = 5
	assert.Equal(t, 3, p.Rating.Value)
}

func TestRestaurantPatchValidate(t *testing.T) {
	p := RestaurantPatch{State: Some(strings.Repeat("s", MaxTextLength+1))}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state must be at most 120")

	assert.NoError(t, RestaurantPatch{State: Null[string]()}.Validate())
}

func TestRestaurantEncodesNullColumns(t *testing.T) {
	b, err := json.Marshal(Restaurant{ID: "r1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"r1","rating":null,"name":null,"site":null,"email":null,"phone":null,"street":null,"city":null,"state":null,"lat":null,"lng":null}`, string(b))
}

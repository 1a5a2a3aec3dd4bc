package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	tests := []struct {
		input string
		want  Date
	}{
		{`"2024-03-01"`, NewDate(2024, time.March, 1)},
		{`"2024-03-01T23:10:00Z"`, NewDate(2024, time.March, 1)},
		{`null`, Date{}},
	}
	for _, tt := range tests {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(tt.input), &d), tt.input)
		assert.True(t, tt.want.Time().Equal(d.Time()), tt.input)
	}

	for _, input := range []string{`"01/03/2024"`, `"2024-02-30"`, `20240301`} {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(input), &d), input)
	}

	data, err := json.Marshal(SurveyCreate{Name: "spring", StartDate: NewDate(2024, time.March, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"spring","start_date":"2024-03-01","end_date":null,"is_latest":false}`, string(data))
}

func TestDateColumn(t *testing.T) {
	d := NewDate(2024, time.March, 1)
	value, err := d.Value()
	require.NoError(t, err)

	var scanned Date
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, "2024-03-01", scanned.String())
	assert.Equal(t, "date", scanned.GormDataType())
}

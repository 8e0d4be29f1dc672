package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkKeepsLastRecordPerClient(t *testing.T) {
	a, b := uuid.NewString(), uuid.NewString()
	req := BulkRequest{
		ClassID: uuid.NewString(),
		Date:    "2026-10-16",
		Records: []BulkRecord{
			{ClientID: a, Status: "absent"},
			{ClientID: b, Status: "present"},
			{ClientID: a, Status: "late", Notes: "traffic"},
		},
	}
	rows := req.ToModels(uuid.New(), uuid.New())
	require.Len(t, rows, 2)
	assert.Equal(t, a, rows[0].ClientID.String())
	assert.Equal(t, "late", rows[0].Status)
	require.NotNil(t, rows[0].Notes)
	assert.Equal(t, "traffic", *rows[0].Notes)
	assert.Equal(t, "present", rows[1].Status)
	assert.Equal(t, "2026-10-16", rows[1].AttendanceDate.Format("2006-01-02"))
}

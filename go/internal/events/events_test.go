package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestUpdateMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     UpdateMessage
		wantErr bool
	}{
		{"games updated", UpdateMessage{Message: MsgGamesUpdated, Sender: "admin1"}, false},
		{"students updated", UpdateMessage{Message: MsgStudentsUpdated, Sender: "admin1"}, false},
		{"plays updated with game id", UpdateMessage{Message: MsgPlaysUpdated, Info: ptr(3), Sender: "admin1"}, false},
		{"plays updated without game id", UpdateMessage{Message: MsgPlaysUpdated, Sender: "admin1"}, true},
		{"unknown message", UpdateMessage{Message: "Tables updated", Sender: "admin1"}, true},
		{"empty message", UpdateMessage{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "games", Subject(MsgGamesUpdated))
	assert.Equal(t, "plays", Subject(MsgPlaysUpdated))
	assert.Equal(t, "students", Subject(MsgStudentsUpdated))
}

func TestEnvelopeCarriesNodeAndUpdate(t *testing.T) {
	update := UpdateMessage{Message: MsgPlaysUpdated, Info: ptr(7), Sender: "admin1"}
	envelope := NewEnvelope("node-a", update)

	assert.Equal(t, "node-a", envelope.Node)
	assert.NotEqual(t, envelope.EventID.String(), "00000000-0000-0000-0000-000000000000")
	assert.False(t, envelope.Timestamp.IsZero())

	data, err := envelope.Marshal()
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, envelope.EventID, decoded.EventID)
	assert.Equal(t, update.Message, decoded.Update.Message)
	require.NotNil(t, decoded.Update.Info)
	assert.Equal(t, int64(7), *decoded.Update.Info)
}

func TestUpdateMessageWireShape(t *testing.T) {
	data, err := json.Marshal(UpdateMessage{Message: MsgPlaysUpdated, Info: ptr(3), Sender: "admin1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Plays updated","info":3,"sender":"admin1"}`, string(data))

	data, err = json.Marshal(UpdateMessage{Message: MsgGamesUpdated, Sender: "admin1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Games updated","sender":"admin1"}`, string(data))
}

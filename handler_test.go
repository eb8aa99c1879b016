package keymgr

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/keymgrtest/assert"
)

func TestReadOptions(t *testing.T) {
	cases := map[string]struct {
		json    string
		want    []struct{ Key int }
		wantErr bool
	}{
		"happy path": {
			json: `{"list": [{"key": 1}, {"key": 2}]}`,
			want: []struct{ Key int }{
				{Key: 1},
				{Key: 2},
			},
		},
		"missing key is a noop": {
			json: `{}`,
			want: nil,
		},
		"wrong body": {
			json:    `{"list": "adasda"}`,
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var o Options
			assert.Nil(t, json.Unmarshal([]byte(tc.json), &o))

			var got []struct{ Key int }
			err := o.ReadOptions("list", &got)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want an error")
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHandlerFunc(t *testing.T) {
	var called int
	h := HandlerFunc(func(ctx context.Context, tx Tx) (*DeliverResult, error) {
		called++
		return nil, errors.ErrState
	})
	_, err := h.Deliver(context.Background(), nil)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, 1, called)
}

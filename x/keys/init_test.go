package keys

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/gconf"
	"github.com/iov-one/keymgr/keymgrtest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenesis(t *testing.T) {
	a, b := keymgrtest.SequenceAddr(1), keymgrtest.SequenceAddr(2)

	Convey("Test initializer", t, func() {
		genesis := `
		{
			"conf": {"keys": {"max_keys": 4}},
			"keys": [
				{
					"address": "0000000000000000000000000000000000000001",
					"keys": [
						{"address": "0000000000000000000000000000000000000002", "weight": 1},
						{"address": "0000000000000000000000000000000000000001", "weight": 3}
					],
					"deployment_threshold": 2,
					"key_management_threshold": 3
				}
			]
		}`
		var o keymgr.Options
		err := json.Unmarshal([]byte(genesis), &o)
		So(err, ShouldBeNil)

		db := newStore()
		var init Initializer
		err = init.FromGenesis(o, db)
		So(err, ShouldBeNil)

		acc, err := NewAccountBucket().GetAccount(db, a)
		So(err, ShouldBeNil)

		Convey("Keys are stored in order", func() {
			So(acc.Keys, ShouldHaveLength, 2)
			So(acc.Keys[0].Address, ShouldResemble, a)
			So(acc.Keys[0].Weight, ShouldEqual, 3)
			So(acc.Keys[1].Address, ShouldResemble, b)
			So(acc.DeploymentThreshold, ShouldEqual, 2)
			So(acc.KeyManagementThreshold, ShouldEqual, 3)
		})

		Convey("Configuration is stored", func() {
			l, err := NewLedger(db)
			So(err, ShouldBeNil)
			So(l.MaxKeys(), ShouldEqual, 4)
		})
	})

	Convey("Default configuration is used when none is given", t, func() {
		db := newStore()
		var init Initializer
		err := init.FromGenesis(keymgr.Options{}, db)
		So(err, ShouldBeNil)

		var conf Configuration
		So(gconf.Load(db, "keys", &conf), ShouldBeNil)
		So(conf, ShouldResemble, DefaultConfiguration())
	})

	Convey("Invalid genesis writes nothing", t, func() {
		cases := map[string]string{
			"unreachable threshold": `{"keys": [{
				"address": "0000000000000000000000000000000000000001",
				"keys": [{"address": "0000000000000000000000000000000000000001", "weight": 1}],
				"deployment_threshold": 1,
				"key_management_threshold": 2
			}]}`,
			"duplicated account": `{"keys": [{
				"address": "0000000000000000000000000000000000000001",
				"keys": [{"address": "0000000000000000000000000000000000000001", "weight": 1}],
				"deployment_threshold": 1,
				"key_management_threshold": 1
			}, {
				"address": "0000000000000000000000000000000000000001",
				"keys": [{"address": "0000000000000000000000000000000000000002", "weight": 1}],
				"deployment_threshold": 1,
				"key_management_threshold": 1
			}]}`,
			"too many keys": `{"conf": {"keys": {"max_keys": 1}}, "keys": [{
				"address": "0000000000000000000000000000000000000001",
				"keys": [
					{"address": "0000000000000000000000000000000000000001", "weight": 1},
					{"address": "0000000000000000000000000000000000000002", "weight": 1}
				],
				"deployment_threshold": 1,
				"key_management_threshold": 1
			}]}`,
			"invalid configuration": `{"conf": {"keys": {"max_keys": 0}}}`,
		}
		for name, genesis := range cases {
			Convey(name, func() {
				var o keymgr.Options
				So(json.Unmarshal([]byte(genesis), &o), ShouldBeNil)

				db := newStore()
				var init Initializer
				err := init.FromGenesis(o, db)
				So(err, ShouldNotBeNil)

				_, err = NewAccountBucket().GetAccount(db, a)
				So(errors.ErrNotFound.Is(err), ShouldBeTrue)
				raw, err := db.Get(gconf.Key("keys"))
				So(err, ShouldBeNil)
				So(raw, ShouldBeNil)
			})
		}
	})
}

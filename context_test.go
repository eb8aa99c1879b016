package keymgr

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// changing the info, should modify the logger
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	assert.Equal(t, newLogger, GetLogger(ctx))
}

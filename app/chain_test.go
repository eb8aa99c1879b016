package app

import (
	"context"
	"testing"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
	"github.com/iov-one/keymgr/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	c3 := &countingDecorator{}
	h := &countingHandler{}
	panicking := &panicDecorator{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		nil,
		panicking,
		c3,
	).WithHandler(h)

	ctx := context.Background()

	// make some calls, make sure it is fine
	_, err := stack.Deliver(ctx, pathTx("test/a"))
	assert.NoError(t, err)
	_, err = stack.Deliver(ctx, pathTx("test/a"))
	assert.NoError(t, err)

	// decorators are counted double, once in, once out
	assert.Equal(t, 4, c1.count)
	assert.Equal(t, 4, c2.count)
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 2, h.count)

	// now, let's trigger a panic
	panicking.armed = true
	_, err = stack.Deliver(ctx, pathTx("test/a"))
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 6, c1.count)
	// note that c2 is called in, but not out
	assert.Equal(t, 5, c2.count)
	// and the call doesn't make it to c3 due to panic
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 2, h.count)
}

func TestChainDoesNotShareBackingArray(t *testing.T) {
	base := ChainDecorators(&countingDecorator{}, &countingDecorator{})
	a := &countingDecorator{}
	b := &countingDecorator{}
	withA := base.Chain(a)
	withB := base.Chain(b)

	h := &countingHandler{}
	_, err := withA.WithHandler(h).Deliver(context.Background(), pathTx("test/a"))
	assert.NoError(t, err)
	assert.Equal(t, 2, a.count)
	assert.Equal(t, 0, b.count)

	_, err = withB.WithHandler(h).Deliver(context.Background(), pathTx("test/a"))
	assert.NoError(t, err)
	assert.Equal(t, 2, a.count)
	assert.Equal(t, 2, b.count)
}

type countingDecorator struct {
	count int
}

func (d *countingDecorator) Deliver(ctx context.Context, tx keymgr.Tx, next keymgr.Handler) (*keymgr.DeliverResult, error) {
	d.count++
	res, err := next.Deliver(ctx, tx)
	d.count++
	return res, err
}

type panicDecorator struct {
	armed bool
}

func (d *panicDecorator) Deliver(ctx context.Context, tx keymgr.Tx, next keymgr.Handler) (*keymgr.DeliverResult, error) {
	if d.armed {
		panic("boom")
	}
	return next.Deliver(ctx, tx)
}

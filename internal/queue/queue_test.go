package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realm-exchange/orderbook/internal/model"
)

func TestBidOrderingPriceThenSeq(t *testing.T) {
	q := New(true)
	q.Push(&model.Order{Price: 100, ArrivalSeq: 1, Remaining: 1})
	q.Push(&model.Order{Price: 105, ArrivalSeq: 2, Remaining: 1})
	q.Push(&model.Order{Price: 105, ArrivalSeq: 3, Remaining: 1})

	top := q.Pop()
	require.NotNil(t, top)
	assert.Equal(t, 105.0, top.Price)
	assert.Equal(t, int64(2), top.ArrivalSeq)

	top = q.Pop()
	assert.Equal(t, int64(3), top.ArrivalSeq)

	top = q.Pop()
	assert.Equal(t, 100.0, top.Price)
}

func TestAskOrderingAscending(t *testing.T) {
	q := New(false)
	q.Push(&model.Order{Price: 110, ArrivalSeq: 1, Remaining: 1})
	q.Push(&model.Order{Price: 100, ArrivalSeq: 2, Remaining: 1})

	top := q.Pop()
	assert.Equal(t, 100.0, top.Price)
}

func TestPeekDoesNotRemove(t *testing.T) {
	q := New(true)
	q.Push(&model.Order{Price: 100, ArrivalSeq: 1, Remaining: 1})
	assert.NotNil(t, q.Peek())
	assert.Equal(t, 1, q.Len())
}

func TestPeekEmpty(t *testing.T) {
	q := New(true)
	assert.Nil(t, q.Peek())
	assert.Nil(t, q.Pop())
}

func TestLevelsSkipsExhaustedAndAggregates(t *testing.T) {
	q := New(true)
	q.Push(&model.Order{Price: 100, ArrivalSeq: 1, Remaining: 0})
	q.Push(&model.Order{Price: 100, ArrivalSeq: 2, Remaining: 5})
	q.Push(&model.Order{Price: 99, ArrivalSeq: 3, Remaining: 2})

	levels := q.Levels(10)
	require.Len(t, levels, 2)
	assert.Equal(t, model.PriceLevel{Price: 100, Qty: 5}, levels[0])
	assert.Equal(t, model.PriceLevel{Price: 99, Qty: 2}, levels[1])
}

func TestLevelsRespectsDepthCap(t *testing.T) {
	q := New(true)
	for i := 0; i < 5; i++ {
		q.Push(&model.Order{Price: float64(100 - i), ArrivalSeq: int64(i), Remaining: 1})
	}
	levels := q.Levels(2)
	assert.Len(t, levels, 2)
}

package service

import (
	"sync"
	"testing"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digitalProduct(id, price string) *model.Product {
	return &model.Product{ID: id, Name: id, Price: dec(price)}
}

func posterProduct(id string) *model.Product {
	return &model.Product{
		ID:                 id,
		Name:               id,
		Price:              dec("45"),
		DiscountPercentage: dec("20"),
		PosterPricing: map[string]decimal.Decimal{
			"A4": dec("100"),
			"A3": dec("150"),
		},
	}
}

// assertTotalConsistent checks that the total equals the sum of line subtotals.
func assertTotalConsistent(t *testing.T, cart model.Cart) {
	t.Helper()
	want := decimal.Zero
	for _, item := range cart.Items {
		want = want.Add(item.SelectedPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		assert.GreaterOrEqual(t, item.Quantity, 1)
	}
	assert.True(t, want.Equal(cart.Total), "total %s, lines sum to %s", cart.Total, want)
}

func TestCartManager_AddItem(t *testing.T) {
	t.Run("merges repeated additions of the same line", func(t *testing.T) {
		m := NewCartManager()
		p := digitalProduct("a", "10")

		require.NoError(t, m.AddItem(p, 1, model.ProductTypeDigital, ""))
		require.NoError(t, m.AddItem(p, 1, model.ProductTypeDigital, ""))

		cart := m.Cart()
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.True(t, dec("20").Equal(cart.Total))
	})

	t.Run("keeps poster sizes on separate lines", func(t *testing.T) {
		m := NewCartManager()
		p := posterProduct("print")

		require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A4"))
		require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A3"))

		cart := m.Cart()
		require.Len(t, cart.Items, 2)
		assert.Equal(t, "A4", cart.Items[0].SelectedPosterSize)
		assert.Equal(t, "A3", cart.Items[1].SelectedPosterSize)
		assertTotalConsistent(t, cart)
	})

	t.Run("keeps digital and poster of one product apart", func(t *testing.T) {
		m := NewCartManager()
		p := posterProduct("print")

		require.NoError(t, m.AddItem(p, 1, model.ProductTypeDigital, ""))
		require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A4"))

		cart := m.Cart()
		require.Len(t, cart.Items, 2)
		assert.True(t, dec("45").Equal(cart.Items[0].SelectedPrice))
		assert.True(t, dec("80").Equal(cart.Items[1].SelectedPrice))
		assert.True(t, dec("125").Equal(cart.Total))
	})

	t.Run("prices a discounted poster size", func(t *testing.T) {
		m := NewCartManager()
		p := &model.Product{
			ID:                 "print",
			DiscountPercentage: dec("20"),
			PosterPricing:      map[string]decimal.Decimal{"A4": dec("100")},
		}

		require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A4"))

		assert.True(t, dec("80").Equal(m.Cart().Items[0].SelectedPrice))
	})

	t.Run("passes digital price through", func(t *testing.T) {
		m := NewCartManager()
		p := &model.Product{ID: "d", Price: dec("45"), DiscountPercentage: dec("20")}

		require.NoError(t, m.AddItem(p, 1, model.ProductTypeDigital, ""))

		assert.True(t, dec("45").Equal(m.Cart().Items[0].SelectedPrice))
	})

	t.Run("keeps the first price when a merged line's inputs change", func(t *testing.T) {
		// Snapshot-on-first-insert: the discount change below does not reprice the line.
		m := NewCartManager()
		p := posterProduct("print")
		require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A4"))

		repriced := p.Clone()
		repriced.DiscountPercentage = dec("50")
		require.NoError(t, m.AddItem(repriced, 2, model.ProductTypePoster, "A4"))

		cart := m.Cart()
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.True(t, dec("80").Equal(cart.Items[0].SelectedPrice))
		assert.True(t, dec("240").Equal(cart.Total))
		assert.Same(t, p, cart.Items[0].Product)
	})

	t.Run("appends new lines at the end", func(t *testing.T) {
		m := NewCartManager()
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, m.AddItem(digitalProduct(id, "1"), 1, "", ""))
		}
		require.NoError(t, m.AddItem(digitalProduct("a", "1"), 1, "", ""))

		cart := m.Cart()
		ids := make([]string, 0, len(cart.Items))
		for _, item := range cart.Items {
			ids = append(ids, item.Product.ID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})
}

func TestCartManager_AddItemValidation(t *testing.T) {
	tests := []struct {
		name     string
		product  *model.Product
		quantity int
		wantErr  error
	}{
		{name: "nil product", product: nil, quantity: 1, wantErr: ErrNilProduct},
		{name: "empty id", product: &model.Product{Price: dec("1")}, quantity: 1, wantErr: ErrProductIDRequired},
		{name: "zero quantity", product: digitalProduct("a", "1"), quantity: 0, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", product: digitalProduct("a", "1"), quantity: -3, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewCartManager()
			calls := 0
			m.Subscribe(func(model.Cart) { calls++ })

			err := m.AddItem(tt.product, tt.quantity, model.ProductTypeDigital, "")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, m.Cart().Items)
			assert.Equal(t, 0, calls)
			assert.Equal(t, uint64(0), m.Cart().Version)
		})
	}
}

func TestCartManager_MaxQuantity(t *testing.T) {
	ebook := digitalProduct("ebook", "5")
	m := NewCartManager(WithMaxQuantity(10))
	calls := 0
	m.Subscribe(func(model.Cart) { calls++ })

	require.NoError(t, m.AddItem(ebook, 10, model.ProductTypeDigital, ""))
	err := m.AddItem(ebook, 10, model.ProductTypeDigital, "")
	assert.ErrorIs(t, err, ErrQuantityTooLarge)
	assert.ErrorIs(t, m.AddItem(ebook, 1, model.ProductTypeDigital, ""), ErrQuantityTooLarge)

	cart := m.Cart()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 10, cart.Items[0].Quantity)
	assert.True(t, dec("50").Equal(cart.Total))
	assert.Equal(t, uint64(1), cart.Version)
	assert.Equal(t, 1, calls)

	assert.ErrorIs(t, m.AddItem(digitalProduct("guide", "1"), 11, model.ProductTypeDigital, ""), ErrQuantityTooLarge, "new lines are capped too")
	require.NoError(t, m.AddItem(ebook, 1, model.ProductTypePoster, "A4"), "other variants have their own line")
}

func TestCartManager_ItemCount(t *testing.T) {
	m := NewCartManager()
	require.NoError(t, m.AddItem(digitalProduct("a", "10"), 3, model.ProductTypeDigital, ""))
	require.NoError(t, m.AddItem(digitalProduct("b", "20"), 2, model.ProductTypeDigital, ""))

	assert.Equal(t, 5, m.ItemCount())
	assert.Len(t, m.Cart().Items, 2)
	assert.Equal(t, 5, m.Cart().ItemCount())
}

func TestCartManager_UpdateQuantity(t *testing.T) {
	t.Run("sets an absolute quantity in place", func(t *testing.T) {
		m := NewCartManager()
		require.NoError(t, m.AddItem(digitalProduct("a", "10"), 1, "", ""))
		require.NoError(t, m.AddItem(digitalProduct("b", "5"), 1, "", ""))

		assert.True(t, m.UpdateQuantity("a", 4))

		cart := m.Cart()
		assert.Equal(t, "a", cart.Items[0].Product.ID)
		assert.Equal(t, 4, cart.Items[0].Quantity)
		assert.True(t, dec("45").Equal(cart.Total))
	})

	t.Run("zero removes the line and a repeat is a no-op", func(t *testing.T) {
		m := NewCartManager()
		require.NoError(t, m.AddItem(digitalProduct("a", "10"), 2, "", ""))

		calls := 0
		m.Subscribe(func(model.Cart) { calls++ })

		assert.True(t, m.UpdateQuantity("a", 0))
		assert.Empty(t, m.Cart().Items)
		assert.True(t, m.Cart().Total.IsZero())
		assert.Equal(t, 1, calls)

		assert.False(t, m.UpdateQuantity("a", 0))
		assert.Equal(t, 1, calls)
	})

	t.Run("negative quantity removes the line", func(t *testing.T) {
		m := NewCartManager()
		require.NoError(t, m.AddItem(digitalProduct("a", "10"), 2, "", ""))

		assert.True(t, m.UpdateQuantity("a", -1))
		assert.Empty(t, m.Cart().Items)
	})

	t.Run("miss does not notify", func(t *testing.T) {
		m := NewCartManager()
		require.NoError(t, m.AddItem(digitalProduct("a", "10"), 1, "", ""))
		version := m.Cart().Version

		calls := 0
		m.Subscribe(func(model.Cart) { calls++ })

		assert.False(t, m.UpdateQuantity("missing", 3))
		assert.Equal(t, 0, calls)
		assert.Equal(t, version, m.Cart().Version)
	})

	t.Run("touches only the first line of a product", func(t *testing.T) {
		m := NewCartManager()
		p := posterProduct("print")
		require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A4"))
		require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A3"))

		assert.True(t, m.UpdateQuantity("print", 5))

		cart := m.Cart()
		assert.Equal(t, 5, cart.Items[0].Quantity)
		assert.Equal(t, 1, cart.Items[1].Quantity)
		assertTotalConsistent(t, cart)
	})
}

func TestCartManager_UpdateLine(t *testing.T) {
	m := NewCartManager()
	p := posterProduct("print")
	require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A4"))
	require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A3"))

	a3 := model.LineKey{ProductID: "print", ProductType: model.ProductTypePoster, PosterSize: "A3"}
	assert.True(t, m.UpdateLine(a3, 3))
	assert.False(t, m.UpdateLine(model.LineKey{ProductID: "print", ProductType: model.ProductTypePoster, PosterSize: "A5"}, 3))

	cart := m.Cart()
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.Items[1].Quantity)
	assertTotalConsistent(t, cart)

	assert.True(t, m.UpdateLine(a3, 0))
	require.Len(t, m.Cart().Items, 1)
	assert.Equal(t, "A4", m.Cart().Items[0].SelectedPosterSize)
}

func TestCartManager_RemoveItem(t *testing.T) {
	t.Run("removes every variant of the product", func(t *testing.T) {
		m := NewCartManager()
		p := posterProduct("print")
		require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A4"))
		require.NoError(t, m.AddItem(digitalProduct("other", "7"), 1, "", ""))
		require.NoError(t, m.AddItem(p, 1, model.ProductTypeDigital, ""))

		assert.Equal(t, 2, m.RemoveItem("print"))

		cart := m.Cart()
		require.Len(t, cart.Items, 1)
		assert.Equal(t, "other", cart.Items[0].Product.ID)
		assert.True(t, dec("7").Equal(cart.Total))
	})

	t.Run("notifies even when nothing matched", func(t *testing.T) {
		m := NewCartManager()
		calls := 0
		m.Subscribe(func(model.Cart) { calls++ })

		assert.Equal(t, 0, m.RemoveItem("missing"))
		assert.Equal(t, 1, calls)
	})
}

func TestCartManager_RemoveLine(t *testing.T) {
	m := NewCartManager()
	p := posterProduct("print")
	require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A4"))
	require.NoError(t, m.AddItem(p, 1, model.ProductTypePoster, "A3"))

	calls := 0
	m.Subscribe(func(model.Cart) { calls++ })

	assert.True(t, m.RemoveLine(model.LineKey{ProductID: "print", ProductType: model.ProductTypePoster, PosterSize: "A4"}))
	assert.False(t, m.RemoveLine(model.LineKey{ProductID: "print", ProductType: model.ProductTypePoster, PosterSize: "A4"}))
	assert.Equal(t, 1, calls)

	cart := m.Cart()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "A3", cart.Items[0].SelectedPosterSize)
	assert.True(t, dec("120").Equal(cart.Total))
}

func TestCartManager_Clear(t *testing.T) {
	m := NewCartManager()
	require.NoError(t, m.AddItem(digitalProduct("a", "10"), 2, "", ""))
	require.NoError(t, m.AddItem(posterProduct("b"), 1, model.ProductTypePoster, "A3"))

	var got model.Cart
	m.Subscribe(func(c model.Cart) { got = c })

	m.Clear()

	cart := m.Cart()
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
	assert.Equal(t, 0, m.ItemCount())
	assert.Empty(t, got.Items)
	assert.True(t, got.Total.IsZero())
}

func TestCartManager_ClearIfVersion(t *testing.T) {
	m := NewCartManager()
	require.NoError(t, m.AddItem(digitalProduct("a", "10"), 1, "", ""))
	version := m.Cart().Version

	require.NoError(t, m.AddItem(digitalProduct("b", "10"), 1, "", ""))
	assert.False(t, m.ClearIfVersion(version))
	assert.Len(t, m.Cart().Items, 2)

	assert.True(t, m.ClearIfVersion(m.Cart().Version))
	assert.Empty(t, m.Cart().Items)
}

func TestCartManager_Subscribe(t *testing.T) {
	t.Run("notifies once per mutation and stops after unsubscribe", func(t *testing.T) {
		m := NewCartManager()
		var received []model.Cart
		unsubscribe := m.Subscribe(func(c model.Cart) { received = append(received, c) })

		require.NoError(t, m.AddItem(digitalProduct("a", "10"), 1, "", ""))
		require.Len(t, received, 1)
		require.Len(t, received[0].Items, 1)
		assert.Equal(t, "a", received[0].Items[0].Product.ID)

		unsubscribe()
		require.NoError(t, m.AddItem(digitalProduct("a", "10"), 1, "", ""))
		assert.Len(t, received, 1)
		assert.Equal(t, 0, m.SubscriberCount())
	})

	t.Run("tracks duplicate registrations independently", func(t *testing.T) {
		m := NewCartManager()
		calls := 0
		fn := func(model.Cart) { calls++ }

		first := m.Subscribe(fn)
		m.Subscribe(fn)
		assert.Equal(t, 2, m.SubscriberCount())

		first()
		first()
		assert.Equal(t, 1, m.SubscriberCount())

		m.Clear()
		assert.Equal(t, 1, calls)
	})

	t.Run("delivers in registration order", func(t *testing.T) {
		m := NewCartManager()
		var order []string
		m.Subscribe(func(model.Cart) { order = append(order, "badge") })
		m.Subscribe(func(model.Cart) { order = append(order, "page") })

		m.Clear()

		assert.Equal(t, []string{"badge", "page"}, order)
	})

	t.Run("snapshot mutations do not leak into the cart", func(t *testing.T) {
		m := NewCartManager()
		m.Subscribe(func(c model.Cart) {
			if len(c.Items) > 0 {
				c.Items[0].Quantity = 99
			}
		})

		require.NoError(t, m.AddItem(digitalProduct("a", "10"), 1, "", ""))

		assert.Equal(t, 1, m.Cart().Items[0].Quantity)
	})

	t.Run("subscriber may read the cart re-entrantly", func(t *testing.T) {
		m := NewCartManager()
		var count int
		m.Subscribe(func(model.Cart) { count = m.ItemCount() })

		require.NoError(t, m.AddItem(digitalProduct("a", "10"), 3, "", ""))

		assert.Equal(t, 3, count)
	})

	t.Run("option registers a subscriber up front", func(t *testing.T) {
		calls := 0
		m := NewCartManager(WithSubscriber(func(model.Cart) { calls++ }))

		m.Clear()

		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, m.SubscriberCount())
	})
}

func TestCartManager_CartIsACopy(t *testing.T) {
	m := NewCartManager()
	require.NoError(t, m.AddItem(digitalProduct("a", "10"), 1, "", ""))

	cart := m.Cart()
	cart.Items[0].Quantity = 50
	cart.Items = append(cart.Items, model.CartItem{})
	cart.Total = dec("1")

	fresh := m.Cart()
	require.Len(t, fresh.Items, 1)
	assert.Equal(t, 1, fresh.Items[0].Quantity)
	assert.True(t, dec("10").Equal(fresh.Total))
}

func TestCartManager_TotalInvariant(t *testing.T) {
	m := NewCartManager()
	a := digitalProduct("a", "12.50")
	b := posterProduct("b")
	c := digitalProduct("c", "3")

	steps := []struct {
		name string
		run  func()
	}{
		{"add a", func() { _ = m.AddItem(a, 2, model.ProductTypeDigital, "") }},
		{"add b A4", func() { _ = m.AddItem(b, 1, model.ProductTypePoster, "A4") }},
		{"add b A3", func() { _ = m.AddItem(b, 3, model.ProductTypePoster, "A3") }},
		{"add c", func() { _ = m.AddItem(c, 1, "", "") }},
		{"merge a", func() { _ = m.AddItem(a, 1, model.ProductTypeDigital, "") }},
		{"update b", func() { m.UpdateQuantity("b", 2) }},
		{"update missing", func() { m.UpdateQuantity("zzz", 2) }},
		{"remove c", func() { m.RemoveItem("c") }},
		{"zero a", func() { m.UpdateQuantity("a", 0) }},
		{"remove b", func() { m.RemoveItem("b") }},
		{"add c again", func() { _ = m.AddItem(c, 4, "", "") }},
		{"clear", func() { m.Clear() }},
	}

	for _, step := range steps {
		step.run()
		t.Run(step.name, func(t *testing.T) {
			assertTotalConsistent(t, m.Cart())
		})
	}
}

func TestCartManager_VersionAndClock(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewCartManager(WithClock(func() time.Time { return now }))

	assert.Equal(t, uint64(0), m.Cart().Version)

	require.NoError(t, m.AddItem(digitalProduct("a", "1"), 1, "", ""))
	m.UpdateQuantity("a", 2)
	m.UpdateQuantity("missing", 2)

	cart := m.Cart()
	assert.Equal(t, uint64(2), cart.Version)
	assert.Equal(t, now, cart.UpdatedAt)
}

func TestCartManager_Concurrency(t *testing.T) {
	m := NewCartManager()
	p := digitalProduct("a", "2")

	var mu sync.Mutex
	var maxVersion uint64
	m.Subscribe(func(c model.Cart) {
		mu.Lock()
		if c.Version > maxVersion {
			maxVersion = c.Version
		}
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.AddItem(p, 1, model.ProductTypeDigital, "")
			_ = m.Cart()
		}()
	}
	wg.Wait()

	cart := m.Cart()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 50, cart.Items[0].Quantity)
	assert.True(t, dec("100").Equal(cart.Total))
	assert.Equal(t, uint64(50), maxVersion)
}

package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var sections = []string{"blox", "bitvavo"}

func newTestHandler(t *testing.T) (*Handler, *cryptofolio.MemoryKV) {
	t.Helper()
	kv := new(cryptofolio.MemoryKV)
	store := cryptofolio.NewStore(kv, "")
	prices := cryptofolio.NewPriceTable("EUR", cryptofolio.Live, map[string]decimal.Decimal{
		"bitcoin": decimal.NewFromInt(67000),
	})
	return NewHandler(store, cryptofolio.NewController(store, sections), prices), kv
}

func postEntry(h http.Handler, section string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/sections/"+section+"/entries", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="blox-form"`)
	assert.Contains(t, body, `id="bitvavo-form"`)
	assert.Equal(t, 2, strings.Count(body, "Total paid: €0.00"))
	assert.NotContains(t, body, `class="entry"`)
}

func TestSubmit(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postEntry(h, "blox", url.Values{"coin": {"bitcoin"}, "amount": {"2"}, "price": {"50000"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, `class="entry"`))
	assert.Contains(t, body, "Paid: €100000.00")
	assert.Contains(t, body, "Current value: €134000.00")
	assert.Contains(t, body, `<strong class="positive">€34000.00</strong>`)
}

func TestSubmit_Invalid(t *testing.T) {
	h, kv := newTestHandler(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		form url.Values
	}{
		{"Amount is not a number", url.Values{"coin": {"bitcoin"}, "amount": {"abc"}, "price": {"50000"}}},
		{"Price is missing", url.Values{"coin": {"bitcoin"}, "amount": {"1"}}},
		{"Unknown coin", url.Values{"coin": {"dogecoin"}, "amount": {"1"}, "price": {"1"}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postEntry(h, "blox", tc.form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), invalidInput)
			assert.NotContains(t, rec.Body.String(), `class="entry"`)

			_, ok, err := kv.Get(ctx, cryptofolio.DefaultStorageKey)
			require.NoError(t, err)
			assert.False(t, ok, "nothing must be stored")
		})
	}
}

func TestSubmit_Throttled(t *testing.T) {
	h, _ := newTestHandler(t)
	h.submissions = rate.NewLimiter(rate.Every(time.Hour), 2)
	form := url.Values{"coin": {"bitcoin"}, "amount": {"1"}, "price": {"1"}}

	require.Equal(t, http.StatusSeeOther, postEntry(h, "blox", form).Code)
	require.Equal(t, http.StatusSeeOther, postEntry(h, "blox", form).Code)

	rec := postEntry(h, "blox", form)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), tooManyRequests)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `class="entry"`), "the throttled entry must not be stored")
}

func TestSubmit_UnknownSection(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := postEntry(h, "kraken", url.Values{"coin": {"bitcoin"}, "amount": {"1"}, "price": {"1"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmit_Corrupt(t *testing.T) {
	h, kv := newTestHandler(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, cryptofolio.DefaultStorageKey, "{oops"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot be read")

	rec = postEntry(h, "blox", url.Values{"coin": {"bitcoin"}, "amount": {"1"}, "price": {"1"}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	raw, _, err := kv.Get(ctx, cryptofolio.DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "{oops", raw)
}

func TestAPIView(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusSeeOther, postEntry(h, "bitvavo", url.Values{"coin": {"bitcoin"}, "amount": {"1"}, "price": {"70000"}}).Code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/view", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var v struct {
		Currency string `json:"currency"`
		Sections []struct {
			Name    string `json:"name"`
			Summary struct {
				Profit struct {
					Amount float64 `json:"amount"`
				} `json:"profit"`
				Positive bool `json:"positive"`
			} `json:"summary"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "EUR", v.Currency)
	require.Len(t, v.Sections, 2)
	assert.Equal(t, "bitvavo", v.Sections[1].Name)
	assert.Equal(t, -3000.0, v.Sections[1].Summary.Profit.Amount)
	assert.False(t, v.Sections[1].Summary.Positive)
}

func TestHelp(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/help", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>cryptofolio</h1>")
}

func TestServer(t *testing.T) {
	h, _ := newTestHandler(t)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(l.Addr().String(), h)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}

package httpx

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarkirana/marketplace/internal/market"
)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: nama kosong", market.ErrValidation), 422},
		{market.ErrUsernameTaken, 409},
		{market.ErrVendorNotFound, 404},
		{market.ErrProductNotFound, 404},
		{market.ErrOrderNotFound, 404},
		{fmt.Errorf("%w: connection refused", market.ErrDependency), 502},
		{fmt.Errorf("sesuatu yang lain"), 500},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	}
}

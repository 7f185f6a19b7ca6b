package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusBaru, StatusDiproses, StatusSelesai, StatusDibatalkan} {
		assert.True(t, KnownStatus(s), string(s))
	}
	assert.False(t, KnownStatus("Pending"))
	assert.False(t, KnownStatus(""))
	assert.False(t, KnownStatus("baru"), "status case-sensitive")
}

func TestVendorCanLogin(t *testing.T) {
	cases := []struct {
		name   string
		status VendorStatus
		active bool
		want   bool
	}{
		{"approved aktif", VendorApproved, true, true},
		{"approved tapi dinonaktifkan admin", VendorApproved, false, false},
		{"masih pending", VendorPending, true, false},
		{"ditolak", VendorRejected, true, false},
	}
	for _, tc := range cases {
		v := Vendor{Status: tc.status, IsActive: tc.active}
		assert.Equal(t, tc.want, v.CanLogin(), tc.name)
	}
}

func TestNewIDFormat(t *testing.T) {
	assert.Regexp(t, `^ORD-[0-9A-F]{6}$`, NewID(PrefixOrder))
	assert.Regexp(t, `^VEND-[0-9A-F]{6}$`, NewID(PrefixVendor))
	assert.Regexp(t, `^PROD-[0-9A-F]{6}$`, NewID(PrefixProduct))

	// dua id berturut-turut hampir pasti beda
	assert.NotEqual(t, NewID(PrefixOrder), NewID(PrefixOrder))
}

package market

type OrderStatus string

const (
	StatusBaru       OrderStatus = "Baru"
	StatusDiproses   OrderStatus = "Diproses"
	StatusSelesai    OrderStatus = "Selesai"
	StatusDibatalkan OrderStatus = "Dibatalkan"
)

// KnownStatus memvalidasi nilai status. Transisi antar status sengaja tidak
// dibatasi: penjual boleh memindahkan pesanan ke status mana pun, mengikuti
// perilaku sistem yang lama.
func KnownStatus(s OrderStatus) bool {
	switch s {
	case StatusBaru, StatusDiproses, StatusSelesai, StatusDibatalkan:
		return true
	}
	return false
}

package model

// Settings is the single global configuration record: the QR verification
// toggle plus the issuing office identity printed on verification pages.
// Number formats are stored per template, not here.
type Settings struct {
	QREnabled     bool   `json:"qr_enabled"`
	OfficeName    string `json:"office_name"`
	OfficeAddress string `json:"office_address"`
	Phone         string `json:"phone"`
	Website       string `json:"website"`
}

// DefaultSettings returns the values seeded on first run.
func DefaultSettings() Settings {
	return Settings{
		QREnabled:     false,
		OfficeName:    "Pemerintah Desa",
		OfficeAddress: "Jl. Raya Desa No. 1",
		Phone:         "(021) 12345678",
		Website:       "www.desa.go.id",
	}
}

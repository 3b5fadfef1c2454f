package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		tag  string
		want Category
	}{
		{"NOMOR_SURAT", CategoryNumber},
		// "nomor" with "nik" must fall through to the national-ID rule.
		{"nomor_nik", CategoryNationalID},
		{"NOMOR_NIK", CategoryNationalID},
		// "nomor" beats later selector keywords.
		{"NOMOR_STATUS", CategoryNumber},
		{"JENIS_KELAMIN", CategoryGender},
		{"AGAMA", CategoryReligion},
		{"STATUS_PERKAWINAN", CategoryMarital},
		{"PEKERJAAN", CategoryOccupation},
		{"PENDIDIKAN_TERAKHIR", CategoryEducation},
		{"ALAMAT", CategoryLongText},
		{"JENIS_USAHA", CategoryLongText},
		{"KETERANGAN", CategoryLongText},
		{"KEPERLUAN", CategoryLongText},
		{"TANGGAL_LAHIR", CategoryDate},
		{"TGL_SURAT", CategoryDate},
		{"NIK", CategoryNationalID},
		{"NO_KK", CategoryNationalID},
		{"NO_HP", CategoryPhone},
		{"TELP", CategoryPhone},
		{"PHONE", CategoryPhone},
		{"NAMA", CategoryName},
		{"NAMA_LENGKAP", CategoryName},
		// "alamat" outranks "nama" even though both substrings could apply later.
		{"ALAMAT_NAMA_JALAN", CategoryLongText},
		{"CATATAN", CategoryText},
		{"RT_RW", CategoryText},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.tag))
		})
	}
}

func TestFieldFor(t *testing.T) {
	t.Run("number field carries the candidate next number", func(t *testing.T) {
		f := FieldFor("NOMOR_SURAT", "145/001/DS/I/2026")
		assert.Equal(t, CategoryNumber, f.Category)
		assert.Equal(t, "145/001/DS/I/2026", f.Default)
		assert.True(t, f.Required)
	})

	t.Run("default is ignored outside the number category", func(t *testing.T) {
		f := FieldFor("NAMA", "145/001/DS/I/2026")
		assert.Empty(t, f.Default)
		assert.True(t, f.Uppercase)
	})

	t.Run("selectors carry their fixed option lists", func(t *testing.T) {
		f := FieldFor("JENIS_KELAMIN", "")
		assert.Equal(t, WidgetSelect, f.Widget)
		assert.Equal(t, []string{"Laki-laki", "Perempuan"}, f.Options)

		f = FieldFor("PENDIDIKAN", "")
		assert.Len(t, f.Options, 8)
		assert.Equal(t, "Tidak Sekolah", f.Options[0])
	})

	t.Run("national id is length constrained", func(t *testing.T) {
		f := FieldFor("NIK", "")
		assert.Equal(t, 16, f.MaxLength)
		assert.Equal(t, "[0-9]{16}", f.Pattern)
	})

	t.Run("label replaces underscores", func(t *testing.T) {
		f := FieldFor("TEMPAT_TANGGAL_LAHIR", "")
		assert.Equal(t, "TEMPAT TANGGAL LAHIR", f.Label)
		assert.Equal(t, CategoryDate, f.Category)
	})
}

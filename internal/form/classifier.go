// Package form infers data-entry fields from template placeholder names.
package form

import "strings"

// Category is the semantic kind inferred from a tag name. Every tag maps to
// exactly one category.
type Category string

const (
	CategoryNumber     Category = "number"
	CategoryGender     Category = "gender"
	CategoryReligion   Category = "religion"
	CategoryMarital    Category = "marital_status"
	CategoryOccupation Category = "occupation"
	CategoryEducation  Category = "education"
	CategoryLongText   Category = "longtext"
	CategoryDate       Category = "date"
	CategoryNationalID Category = "national_id"
	CategoryPhone      Category = "phone"
	CategoryName       Category = "name"
	CategoryText       Category = "text"
)

// Widget hints consumed by the form-rendering collaborator.
const (
	WidgetText     = "text"
	WidgetSelect   = "select"
	WidgetTextarea = "textarea"
	WidgetTel      = "tel"
)

// NationalIDLength is the fixed digit count for NIK/KK fields.
const NationalIDLength = 16

// Fixed, ordered option lists for the enumerable categories.
var (
	GenderOptions   = []string{"Laki-laki", "Perempuan"}
	ReligionOptions = []string{"Islam", "Kristen Protestan", "Katolik", "Hindu", "Buddha", "Konghucu"}
	MaritalOptions  = []string{"Belum Kawin", "Kawin", "Cerai Hidup", "Cerai Mati"}
	OccupationOptions = []string{
		"Petani", "Pedagang", "Pegawai Negeri Sipil", "TNI/Polri", "Karyawan Swasta",
		"Wiraswasta", "Pelajar/Mahasiswa", "Ibu Rumah Tangga", "Pensiunan", "Tidak Bekerja", "Lainnya",
	}
	EducationOptions = []string{
		"Tidak Sekolah", "SD/Sederajat", "SMP/Sederajat", "SMA/Sederajat", "D3", "S1", "S2", "S3",
	}
)

// Field describes one input inferred from a template tag. All tags are
// currently mandatory.
type Field struct {
	Tag       string   `json:"tag"`
	Label     string   `json:"label"`
	Category  Category `json:"category"`
	Widget    string   `json:"widget"`
	Required  bool     `json:"required"`
	Options   []string `json:"options,omitempty"`
	Default   string   `json:"default,omitempty"`
	MaxLength int      `json:"max_length,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Uppercase bool     `json:"uppercase,omitempty"`
}

type rule struct {
	match    func(name string) bool
	category Category
}

func containsAny(subs ...string) func(string) bool {
	return func(name string) bool {
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

// rules is the explicit priority order; the first matching predicate decides
// the category. "nomor" yields the number category only when "nik" is absent,
// so a tag like nomor_nik still lands on the national-ID rule below.
var rules = []rule{
	{func(n string) bool { return strings.Contains(n, "nomor") && !strings.Contains(n, "nik") }, CategoryNumber},
	{containsAny("kelamin"), CategoryGender},
	{containsAny("agama"), CategoryReligion},
	{containsAny("status"), CategoryMarital},
	{containsAny("pekerjaan"), CategoryOccupation},
	{containsAny("pendidikan"), CategoryEducation},
	{containsAny("alamat", "usaha", "keterangan", "keperluan"), CategoryLongText},
	{containsAny("tanggal", "tgl"), CategoryDate},
	{containsAny("nik", "kk"), CategoryNationalID},
	{containsAny("hp", "telp", "phone"), CategoryPhone},
	{containsAny("nama"), CategoryName},
}

// Classify maps a tag name to its category, matched against the lowercased
// name in fixed priority order. Tags matching no rule are plain text.
func Classify(tag string) Category {
	name := strings.ToLower(tag)
	for _, r := range rules {
		if r.match(name) {
			return r.category
		}
	}
	return CategoryText
}

// FieldFor builds the renderable field for a tag. numberDefault pre-fills the
// number category with the candidate next document number; it is ignored for
// every other category.
func FieldFor(tag, numberDefault string) Field {
	f := Field{
		Tag:      tag,
		Label:    strings.ReplaceAll(tag, "_", " "),
		Category: Classify(tag),
		Widget:   WidgetText,
		Required: true,
	}
	switch f.Category {
	case CategoryNumber:
		f.Default = numberDefault
	case CategoryGender:
		f.Widget = WidgetSelect
		f.Options = GenderOptions
	case CategoryReligion:
		f.Widget = WidgetSelect
		f.Options = ReligionOptions
	case CategoryMarital:
		f.Widget = WidgetSelect
		f.Options = MaritalOptions
	case CategoryOccupation:
		f.Widget = WidgetSelect
		f.Options = OccupationOptions
	case CategoryEducation:
		f.Widget = WidgetSelect
		f.Options = EducationOptions
	case CategoryLongText:
		f.Widget = WidgetTextarea
	case CategoryNationalID:
		f.MaxLength = NationalIDLength
		f.Pattern = "[0-9]{16}"
	case CategoryPhone:
		f.Widget = WidgetTel
	case CategoryName:
		f.Uppercase = true
	}
	return f
}

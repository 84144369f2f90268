package demographics

import (
	"strings"

	"jefabcli/internal/cleaning"
	"jefabcli/internal/table"
)

// Source columns of the cleaned survey
const (
	ColumnSex            = "SEXO"
	ColumnCategory       = "CATEGORIA"
	ColumnRank           = "GRADO"
	ColumnMaritalStatus  = "ESTADO_CIVIL"
	ColumnEducationLevel = "NIVEL_EDUCATIVO"
	ColumnAge            = "EDAD2"
)

// Derived columns added by Prepare
const (
	ColumnSexUp           = "SEXO_UP"
	ColumnCategoryUp      = "CATEGORIA_UP"
	ColumnMaritalStatusUp = "ESTADO_CIVIL_UP"
	ColumnRankLow         = "GRADO_LOW"
	ColumnEducationLow    = "NIVEL_EDU_LOW"
	ColumnAgeGroup        = "GRUPO_ETARIO"
)

// Labels used by the indices
const (
	SexMale          = "HOMBRE"
	SexFemale        = "MUJER"
	CategoryOfficer  = "OFICIAL"
	CategoryNCO      = "SUBOFICIAL"
	CategoryCivilian = "CIVIL"
)

// AgeGroups are the standard age groups, in order
var AgeGroups = []string{"18-25", "26-35", "36-45", "46-55", "56+"}

// ageGroupUpper holds the inclusive upper bound of each group but the last
var ageGroupUpper = []float64{25, 35, 45, 55}

type derivation struct {
	source, target string
	upper          bool
}

var derivations = []derivation{
	{ColumnSex, ColumnSexUp, true},
	{ColumnCategory, ColumnCategoryUp, true},
	{ColumnRank, ColumnRankLow, false},
	{ColumnEducationLevel, ColumnEducationLow, false},
	{ColumnMaritalStatus, ColumnMaritalStatusUp, true},
}

// Prepare returns a copy of t with the normalized categorical columns, a
// numeric EDAD2 and the GRUPO_ETARIO column. t itself is not modified.
// Derived columns whose source is absent are not created; columns that
// already exist are replaced in the copy.
func Prepare(t *table.Table) *table.Table {
	out := t.Clone()
	n := cleaning.NewNormalizer(nil)

	for _, d := range derivations {
		src, ok := out.Column(d.source)
		if !ok {
			continue
		}
		values := make([]table.Value, src.Len())
		for i, v := range src.Values {
			if v.IsMissing() {
				continue
			}
			s := n.NormalizeString(v.String())
			if d.upper {
				s = strings.ToUpper(s)
			}
			values[i] = table.Text(s)
		}
		setColumn(out, &table.Column{Name: d.target, Kind: table.KindText, Values: values})
	}

	age, ok := out.Column(ColumnAge)
	if !ok {
		return out
	}
	for i, v := range age.Values {
		if v.IsText() {
			age.Values[i] = table.ParseCell(v.String())
			if age.Values[i].IsText() {
				age.Values[i] = table.Missing()
			}
		}
	}
	age.Kind = table.KindNumber

	groups := make([]table.Value, age.Len())
	for i, v := range age.Values {
		if a, ok := v.Float(); ok {
			if label := AgeGroup(a); label != "" {
				groups[i] = table.Text(label)
			}
		}
	}
	setColumn(out, &table.Column{Name: ColumnAgeGroup, Kind: table.KindText, Values: groups})

	return out
}

// AgeGroup returns the standard group of an age, or "" for negative ages.
// Groups are closed on the right; the first one also includes zero.
func AgeGroup(age float64) string {
	if age < 0 {
		return ""
	}
	for i, upper := range ageGroupUpper {
		if age <= upper {
			return AgeGroups[i]
		}
	}
	return AgeGroups[len(AgeGroups)-1]
}

func setColumn(t *table.Table, col *table.Column) {
	if existing, ok := t.Column(col.Name); ok {
		existing.Kind = col.Kind
		existing.Values = col.Values
		return
	}
	// Lengths match the table by construction
	_ = t.AddColumn(col)
}

package config

// Application constants
const (
	AppName    = "JEFAB depurador"
	AppVersion = "1.0.0"

	// Columns the reporting layer reads
	ColumnChildren       = "HIJOS"
	ColumnChildrenCount  = "NUMERO_HIJOS"
	ColumnChildrenAtHome = "HIJOS_EN_HOGAR"
	ColumnMotherAlive    = "MADRE_VIVE"
	ColumnMotherAge      = "EDAD_MADRE"
	ColumnMotherAgeRange = "EDAD_RANGO_MADRE"
	ColumnFatherAlive    = "PADRE_VIVE"
	ColumnFatherAge      = "EDAD_PADRE"
	ColumnFatherAgeRange = "EDAD_RANGO_PADRE"

	// DefaultOtherBracket labels ages outside every band
	DefaultOtherBracket = "Other"
)

// DefaultCleaning returns the built-in cleaning tables. Each call returns a fresh copy.
func DefaultCleaning() CleaningConfig {
	return CleaningConfig{
		Mojibake:     defaultMojibake(),
		Synonyms:     defaultSynonyms(),
		Rules:        defaultRules(),
		Liveness:     defaultLiveness(),
		Parents:      defaultParents(),
		Brackets:     defaultBrackets(),
		OtherBracket: DefaultOtherBracket,
	}
}

// defaultMojibake maps UTF-8 accented letters read as Windows-1252 back to the letter
func defaultMojibake() []Replacement {
	return []Replacement{
		{From: "Ã¡", To: "á"},
		{From: "Ã©", To: "é"},
		{From: "Ã\u00ad", To: "í"},
		{From: "Ã³", To: "ó"},
		{From: "Ãº", To: "ú"},
		{From: "Ã\u0081", To: "Á"},
		{From: "Ã‰", To: "É"},
		{From: "Ã\u008d", To: "Í"},
		{From: "Ã“", To: "Ó"},
		{From: "Ãš", To: "Ú"},
		{From: "Ã±", To: "ñ"},
		{From: "Ã‘", To: "Ñ"},
		{From: "Ã¼", To: "ü"},
		{From: "Ãœ", To: "Ü"},
	}
}

func defaultSynonyms() []Synonym {
	return []Synonym{
		{Canonical: "Madre", Variants: []string{"mama", "mamá", "madre"}},
		{Canonical: "Padre", Variants: []string{"papa", "papá", "padre"}},
		{Canonical: "Tio", Variants: []string{"tio", "tío"}},
		{Canonical: "Tia", Variants: []string{"tia", "tía"}},
		{Canonical: "Primo", Variants: []string{"primo"}},
		{Canonical: "Prima", Variants: []string{"prima"}},
		{Canonical: "Abuelo", Variants: []string{"abuelo"}},
		{Canonical: "Abuela", Variants: []string{"abuela"}},
		{Canonical: "Madres", Variants: []string{"mamas", "mamás", "madres"}},
		{Canonical: "Padres", Variants: []string{"papas", "papás", "padres"}},
		{Canonical: "Tios", Variants: []string{"tios", "tíos"}},
		{Canonical: "Tias", Variants: []string{"tias", "tías"}},
		{Canonical: "Primos", Variants: []string{"primos"}},
		{Canonical: "Primas", Variants: []string{"primas"}},
		{Canonical: "Abuelos", Variants: []string{"abuelos"}},
		{Canonical: "Abuelas", Variants: []string{"abuelas"}},
	}
}

func defaultRules() []Rule {
	return []Rule{
		{Trigger: ColumnChildren, When: "no", Dependent: ColumnChildrenCount, Fill: 0},
		{Trigger: ColumnChildren, When: "no", Dependent: ColumnChildrenAtHome, Fill: 0},
		{Trigger: ColumnMotherAlive, When: "no", Dependent: ColumnMotherAge, Fill: 0},
		{Trigger: ColumnMotherAlive, When: "no", Dependent: ColumnMotherAgeRange, Fill: 0},
		{Trigger: ColumnFatherAlive, When: "no", Dependent: ColumnFatherAge, Fill: 0},
		{Trigger: ColumnFatherAlive, When: "no", Dependent: ColumnFatherAgeRange, Fill: 0},
	}
}

func defaultLiveness() LivenessConfig {
	return LivenessConfig{
		Alive: []string{"si", "yes", "1", "true", "vive"},
		Dead:  []string{"no", "0", "false"},
	}
}

func defaultParents() []ParentSide {
	return []ParentSide{
		{Name: "father", Liveness: ColumnFatherAlive, Age: ColumnFatherAge, Bracket: ColumnFatherAgeRange},
		{Name: "mother", Liveness: ColumnMotherAlive, Age: ColumnMotherAge, Bracket: ColumnMotherAgeRange},
	}
}

func defaultBrackets() []Bracket {
	return []Bracket{
		{Low: 18, High: 22, Label: "18-22"},
		{Low: 23, High: 27, Label: "23-27"},
		{Low: 28, High: 32, Label: "28-32"},
		{Low: 33, High: 37, Label: "33-37"},
		{Low: 38, High: 42, Label: "38-42"},
		{Low: 43, High: 47, Label: "43-47"},
		{Low: 48, High: 52, Label: "48-52"},
		{Low: 53, High: 57, Label: "53-57"},
		{Low: 58, High: 62, Label: "58-62"},
	}
}

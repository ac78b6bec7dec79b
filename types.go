package familyone

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender maps anything other than FEMALE to MALE.
func ParseGender(s string) Gender {
	if Gender(s) == GenderFemale {
		return GenderFemale
	}
	return GenderMale
}

type Role string

const (
	RoleGrandfather   Role = "GRANDFATHER"
	RoleGrandmother   Role = "GRANDMOTHER"
	RoleFather        Role = "FATHER"
	RoleMother        Role = "MOTHER"
	RoleSon           Role = "SON"
	RoleDaughter      Role = "DAUGHTER"
	RoleGrandson      Role = "GRANDSON"
	RoleGranddaughter Role = "GRANDDAUGHTER"
	RoleBrother       Role = "BROTHER"
	RoleSister        Role = "SISTER"
	RoleUncle         Role = "UNCLE"
	RoleAunt          Role = "AUNT"
	RoleNephew        Role = "NEPHEW"
	RoleNiece         Role = "NIECE"
	RoleOther         Role = "OTHER"
)

var roleLabels = map[Role]string{
	RoleGrandfather:   "Дедушка",
	RoleGrandmother:   "Бабушка",
	RoleFather:        "Отец",
	RoleMother:        "Мать",
	RoleSon:           "Сын",
	RoleDaughter:      "Дочь",
	RoleGrandson:      "Внук",
	RoleGranddaughter: "Внучка",
	RoleBrother:       "Брат",
	RoleSister:        "Сестра",
	RoleUncle:         "Дядя",
	RoleAunt:          "Тетя",
	RoleNephew:        "Племянник",
	RoleNiece:         "Племянница",
	RoleOther:         "Другое",
}

// Label returns the display label of the role, or the raw value for unknown roles.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// RoleOrOther keeps empty roles from reaching the store.
func RoleOrOther(s string) Role {
	if s == "" {
		return RoleOther
	}
	return Role(s)
}

package entities

import (
	"strings"

	"fleetadmin/internal/console"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"
)

var teamRoles = []string{model.RoleOwner, model.RoleAdmin, model.RoleEmployee}

func permissionFields() []console.Field {
	fields := make([]console.Field, 0, len(model.Permissions))
	for _, p := range model.Permissions {
		fields = append(fields, console.Field{Key: p.ID, Label: p.Label, Kind: console.KindCheckbox, Default: "false"})
	}
	return fields
}

var teamSchema = console.Schema{
	Sections: []console.Section{
		{Key: "", Title: "Personal Information", Fields: []console.Field{
			{Key: "name", Label: "Full Name", Required: true},
			{Key: "email", Label: "Email", Kind: console.KindEmail, Required: true, Validator: "email"},
			{Key: "phone", Label: "Phone", Kind: console.KindPhone, Validator: "phone"},
			{Key: "alternatePhone", Label: "Alternate Phone", Kind: console.KindPhone, Validator: "phone"},
			{Key: "address", Label: "Address", Kind: console.KindTextArea},
		}},
		{Key: "", Title: "Role", Fields: []console.Field{
			{Key: "department", Label: "Department"},
			{Key: "designation", Label: "Designation"},
			{Key: "role", Label: "Role", Kind: console.KindSelect, Required: true, Default: model.RoleEmployee, Options: console.Options(teamRoles...)},
			{Key: "status", Label: "Status", Kind: console.KindSelect, Default: model.MemberActive, Options: console.Options(model.MemberActive, model.MemberInactive)},
		}},
		{Key: "", Title: "Login", Fields: []console.Field{
			{Key: "username", Label: "Username", Required: true},
			{Key: "password", Label: "Password", Kind: console.KindPassword, Required: true, CreateOnly: true},
		}},
		{Key: "permissions", Title: "Permissions", ShowWhen: &console.Condition{Field: "role", Values: []string{model.RoleEmployee}}, Fields: permissionFields()},
	},
}

func encodeMember(m service.CreateMemberRequest) console.Values {
	v := console.Values{
		"name":           m.Name,
		"email":          m.Email,
		"phone":          m.Phone,
		"alternatePhone": m.AlternatePhone,
		"address":        m.Address,
		"department":     m.Department,
		"designation":    m.Designation,
		"role":           m.Role,
		"status":         m.Status,
		"username":       m.Username,
		"password":       "",
	}
	granted := map[string]bool{}
	for _, p := range m.Permissions {
		granted[p] = true
	}
	for _, p := range model.Permissions {
		v["permissions."+p.ID] = fmtBool(granted[p.ID])
	}
	return v
}

func decodeMember(v console.Values) (service.CreateMemberRequest, error) {
	d := newDecoder(v)
	m := service.CreateMemberRequest{
		TeamMember: model.TeamMember{
			Name:           d.text("name"),
			Email:          strings.ToLower(d.text("email")),
			Phone:          d.text("phone"),
			AlternatePhone: d.text("alternatePhone"),
			Address:        d.text("address"),
			Department:     d.text("department"),
			Designation:    d.text("designation"),
			Role:           d.text("role"),
			Status:         d.text("status"),
			Username:       d.text("username"),
			Permissions:    []string{},
		},
		Password: v.Get("password"),
	}
	if m.Role == model.RoleEmployee {
		for _, p := range model.Permissions {
			if d.bool("permissions." + p.ID) {
				m.Permissions = append(m.Permissions, p.ID)
			}
		}
	}
	return m, d.err
}

func memberCard(m service.CreateMemberRequest) console.Card {
	lines := []string{m.Email}
	if m.Role == model.RoleEmployee {
		lines = append(lines, fmtInt(len(m.Permissions))+" permissions")
	} else {
		lines = append(lines, "Full access")
	}
	return console.Card{
		Title:    m.Name,
		Subtitle: "@" + m.Username + " · " + orDash(m.Designation),
		Status:   m.Role,
		Lines:    lines,
		Amount:   console.Humanize(m.Status),
	}
}

// Team describes console users. Passwords are sent on create only.
func Team() *console.Entity[service.CreateMemberRequest] {
	return &console.Entity[service.CreateMemberRequest]{
		Key:      "team",
		Title:    "Team",
		Singular: "Team Member",
		ID:       func(m service.CreateMemberRequest) string { return m.ID.String() },
		Search: func(m service.CreateMemberRequest) []string {
			return []string{m.Name, m.Email, m.Username, m.Department, m.Designation}
		},
		Category:   func(m service.CreateMemberRequest) string { return m.Role },
		Categories: console.Options(teamRoles...),
		Schema:     teamSchema,
		Codec:      console.Codec[service.CreateMemberRequest]{Encode: encodeMember, Decode: decodeMember},
		Card:       memberCard,
	}
}

// Package fixture loads staff, availability and rule documents from YAML.
// It is the engine's load-time boundary: documents are structurally
// validated and unknown constraint types are rejected here, so everything
// past this point works with trusted model values.
package fixture

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/venueops/roster/pkg/errors"
	"github.com/venueops/roster/pkg/model"
)

// Document is a fully converted fixture.
type Document struct {
	Staff        []model.StaffMember
	Availability []model.Availability
	Rules        []model.Rule
}

type fileDoc struct {
	Staff        []staffDoc        `yaml:"staff" validate:"dive"`
	Availability []availabilityDoc `yaml:"availability" validate:"dive"`
	Rules        []ruleDoc         `yaml:"rules" validate:"dive"`
}

type staffDoc struct {
	ID              string   `yaml:"id" validate:"omitempty,uuid"`
	Name            string   `yaml:"name" validate:"required"`
	Role            string   `yaml:"role"`
	Roles           []string `yaml:"roles"`
	Skills          []string `yaml:"skills"`
	HasKeys         bool     `yaml:"has_keys"`
	MaxHoursPerWeek float64  `yaml:"max_hours_per_week" validate:"gte=0,lte=168"`
}

type availabilityDoc struct {
	StaffName   string      `yaml:"staff" validate:"required"`
	Day         string      `yaml:"day" validate:"required"`
	Unavailable bool        `yaml:"unavailable"`
	Windows     []windowDoc `yaml:"windows" validate:"dive"`
}

type windowDoc struct {
	Start string `yaml:"start" validate:"required"`
	End   string `yaml:"end" validate:"required"`
}

type ruleDoc struct {
	ID         string         `yaml:"id" validate:"omitempty,uuid"`
	RuleText   string         `yaml:"rule"`
	Type       string         `yaml:"type" validate:"required"`
	Weight     int            `yaml:"weight" validate:"required,gt=0"`
	Active     *bool          `yaml:"active"`
	ExpiresAt  *time.Time     `yaml:"expires_at"`
	Parameters map[string]any `yaml:"parameters"`
}

var validate = validator.New()

// LoadFile loads a fixture document from a YAML file.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "open fixture file")
	}
	defer f.Close()
	return Load(f)
}

// Load reads, validates and converts one YAML fixture document.
func Load(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "read fixture")
	}

	var file fileDoc
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "parse fixture yaml")
	}
	if err := validate.Struct(&file); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "fixture failed validation")
	}

	doc := &Document{}
	byName := make(map[string]uuid.UUID)

	for _, s := range file.Staff {
		member, err := convertStaff(s)
		if err != nil {
			return nil, err
		}
		if _, dup := byName[member.Name]; dup {
			return nil, errors.InvalidInput("staff.name", "duplicate name").
				WithField("name", member.Name)
		}
		byName[member.Name] = member.ID
		doc.Staff = append(doc.Staff, member)
	}

	for _, a := range file.Availability {
		decl, err := convertAvailability(a, byName)
		if err != nil {
			return nil, err
		}
		doc.Availability = append(doc.Availability, decl)
	}

	for _, r := range file.Rules {
		rule, err := convertRule(r)
		if err != nil {
			return nil, err
		}
		doc.Rules = append(doc.Rules, rule)
	}
	return doc, nil
}

func convertStaff(s staffDoc) (model.StaffMember, error) {
	member := model.StaffMember{
		ID:              uuid.New(),
		Name:            s.Name,
		Role:            s.Role,
		Roles:           s.Roles,
		Skills:          s.Skills,
		HasKeys:         s.HasKeys,
		MaxHoursPerWeek: s.MaxHoursPerWeek,
	}
	if s.ID != "" {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return member, errors.InvalidInput("staff.id", err.Error())
		}
		member.ID = id
	}
	if member.Role != "" && len(member.Roles) == 0 {
		member.Roles = []string{member.Role}
	}
	return member, nil
}

func convertAvailability(a availabilityDoc, byName map[string]uuid.UUID) (model.Availability, error) {
	decl := model.Availability{Day: model.Day(a.Day), Unavailable: a.Unavailable}

	id, ok := byName[a.StaffName]
	if !ok {
		return decl, errors.InvalidInput("availability.staff", "references unknown staff member").
			WithField("staff", a.StaffName)
	}
	decl.StaffID = id

	if !decl.Day.Valid() {
		return decl, errors.InvalidInput("availability.day", fmt.Sprintf("unknown day %q", a.Day))
	}
	for _, w := range a.Windows {
		window, err := model.ParseWindow(w.Start, w.End)
		if err != nil {
			return decl, errors.InvalidInput("availability.windows", err.Error()).
				WithField("staff", a.StaffName)
		}
		decl.Windows = append(decl.Windows, window)
	}
	return decl, nil
}

func convertRule(r ruleDoc) (model.Rule, error) {
	rule := model.Rule{
		ID:         uuid.New(),
		RuleText:   r.RuleText,
		Type:       model.ConstraintType(r.Type),
		Parameters: r.Parameters,
		Weight:     r.Weight,
		IsActive:   true,
		ExpiresAt:  r.ExpiresAt,
	}
	if r.ID != "" {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return rule, errors.InvalidInput("rule.id", err.Error())
		}
		rule.ID = id
	}
	if r.Active != nil {
		rule.IsActive = *r.Active
	}
	if !rule.Type.Known() {
		return rule, errors.UnknownRule(rule.ID.String(), r.Type)
	}
	return rule, nil
}

package models

import "fmt"

// Wizard step forms. Each form decodes the draft fields one step owns; the
// validate tags are the step's local rules and CheckFields adds the rules that
// span more than one field.

const MaxAttachmentSize = 10 * 1024 * 1024

// Gig creation

type GigDetails struct {
	GigName            string        `json:"gigName" validate:"notblank,max=200"`
	GigDescription     string        `json:"gigDescription" validate:"notblank,max=2000"`
	SelectedSkills     []SelectedRef `json:"selectedSkills" validate:"min=1,max=15,dive"`
	SelectedIndustries []SelectedRef `json:"selectedIndustries" validate:"max=10,dive"`
}

type GigBudget struct {
	Budget              NumberString `json:"budget"`
	BudgetToBeConfirmed bool         `json:"budgetToBeConfirmed"`
	Duration            string       `json:"duration" validate:"required,duration_label"`
	RoleType            string       `json:"roleType" validate:"omitempty,oneof=in_person hybrid remote"`
	GigLocation         string       `json:"gigLocation" validate:"max=200"`
}

func (b GigBudget) CheckFields() map[string]string {
	if b.BudgetToBeConfirmed {
		return nil
	}
	if b.Budget.IsEmpty() {
		return map[string]string{"budget": "this field is required unless the budget is to be confirmed"}
	}
	if _, ok := b.Budget.PositiveAmount(); !ok {
		return map[string]string{"budget": "should be a positive number"}
	}
	return nil
}

type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"notblank,max=255"`
	Size int64  `json:"size" validate:"gte=0,lte=10485760"`
	URL  string `json:"url,omitempty" validate:"omitempty,url"`
}

type GigAttachments struct {
	Attachments []Attachment `json:"attachments" validate:"max=5,dive"`
}

type ScreeningQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question" validate:"notblank,max=500"`
}

type GigQuestions struct {
	ScreeningQuestions []ScreeningQuestion `json:"screeningQuestions" validate:"max=10,dive"`
}

// Professional onboarding

type OnboardingMethod struct {
	Method string `json:"method" validate:"required,oneof=cv manual ai"`
}

type ProfessionalBasicInfo struct {
	FirstName       string `json:"firstName" validate:"notblank,max=100"`
	LastName        string `json:"lastName" validate:"notblank,max=100"`
	Headline        string `json:"headline" validate:"notblank,max=200"`
	JobTitle        string `json:"jobTitle" validate:"max=200"`
	Bio             string `json:"bio" validate:"max=2000"`
	ProfilePhotoURL string `json:"profilePhotoUrl" validate:"omitempty,url"`
}

type WorkExperienceEntry struct {
	Company          string `json:"company" validate:"notblank,max=200"`
	JobTitle         string `json:"jobTitle" validate:"notblank,max=200"`
	Description      string `json:"description" validate:"max=2000"`
	City             string `json:"city" validate:"max=100"`
	CountryID        int64  `json:"countryId" validate:"gte=0"`
	StartMonth       int    `json:"startMonth" validate:"omitempty,min=1,max=12"`
	StartYear        int    `json:"startYear" validate:"required,gte=1950,lte=2100"`
	EndMonth         int    `json:"endMonth" validate:"omitempty,min=1,max=12"`
	EndYear          int    `json:"endYear" validate:"omitempty,gte=1950,lte=2100"`
	CurrentlyWorking bool   `json:"currentlyWorking"`
}

type WorkExperience struct {
	WorkExperience []WorkExperienceEntry `json:"workExperience" validate:"max=20,dive"`
}

func (w WorkExperience) CheckFields() map[string]string {
	errs := map[string]string{}
	for i, e := range w.WorkExperience {
		if e.CurrentlyWorking || e.EndYear == 0 {
			continue
		}
		if e.EndYear*12+e.EndMonth < e.StartYear*12+e.StartMonth {
			errs[fmt.Sprintf("workExperience[%d].endYear", i)] = "end date cannot be before start date"
		}
	}
	return errs
}

type SkillsIndustries struct {
	SelectedSkills     []SelectedRef `json:"selectedSkills" validate:"min=1,max=30,dive"`
	SelectedIndustries []SelectedRef `json:"selectedIndustries" validate:"max=10,dive"`
}

type LanguageSelection struct {
	LanguageID  NumberString `json:"languageId" validate:"required"`
	Name        string       `json:"name" validate:"max=100"`
	Proficiency string       `json:"proficiency" validate:"required,oneof=basic conversational fluent native"`
}

type Languages struct {
	Languages []LanguageSelection `json:"languages" validate:"max=10,dive"`
}

type HourlyRate struct {
	HourlyRateMin NumberString `json:"hourlyRateMin" validate:"required,positive_amount"`
	HourlyRateMax NumberString `json:"hourlyRateMax" validate:"required,positive_amount"`
	Currency      string       `json:"currency" validate:"omitempty,len=3,alpha"`
}

func (r HourlyRate) CheckFields() map[string]string {
	lo, okLo := r.HourlyRateMin.PositiveAmount()
	hi, okHi := r.HourlyRateMax.PositiveAmount()
	if okLo && okHi && lo >= hi {
		return map[string]string{"hourlyRateMax": "maximum rate must be greater than minimum rate"}
	}
	return nil
}

// Client onboarding

type ClientBasicInfo struct {
	FirstName       string `json:"firstName" validate:"notblank,max=100"`
	LastName        string `json:"lastName" validate:"notblank,max=100"`
	JobTitle        string `json:"jobTitle" validate:"notblank,max=200"`
	ProfilePhotoURL string `json:"profilePhotoUrl" validate:"omitempty,url"`
}

type ClientCompany struct {
	CompanyName      string       `json:"companyName" validate:"notblank,max=200"`
	OrganisationType string       `json:"organisationType" validate:"required,max=50"`
	IndustryID       NumberString `json:"industryId" validate:"required"`
	City             string       `json:"city" validate:"notblank,max=100"`
	CountryID        NumberString `json:"countryId" validate:"required"`
	Website          string       `json:"website" validate:"omitempty,url"`
	DunsNumber       string       `json:"dunsNumber" validate:"omitempty,numeric,len=9"`
	LogoURL          string       `json:"logoUrl" validate:"omitempty,url"`
}

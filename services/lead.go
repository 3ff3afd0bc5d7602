package services

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Core lead field keys. Column configs refer to these keys; anything else is
// a dynamic field stored in Lead.Fields.
const (
	FieldKVA              = "kva"
	FieldConsumerNumber   = "consumerNumber"
	FieldCompany          = "company"
	FieldClientName       = "clientName"
	FieldConnectionDate   = "connectionDate"
	FieldDiscom           = "discom"
	FieldGIDC             = "gidc"
	FieldGSTNumber        = "gstNumber"
	FieldUnitType         = "unitType"
	FieldStatus           = "status"
	FieldMobileNumber     = "mobileNumber"
	FieldMobileNumbers    = "mobileNumbers"
	FieldNotes            = "notes"
	FieldCompanyLocation  = "companyLocation"
	FieldFollowUpDate     = "followUpDate"
	FieldLastActivityDate = "lastActivityDate"
	FieldFinalConclusion  = "finalConclusion"
	FieldMandateStatus    = "mandateStatus"
	FieldDocumentStatus   = "documentStatus"

	// Virtual keys addressing secondary contact slots.
	FieldMobileNumber2 = "mobileNumber2"
	FieldMobileNumber3 = "mobileNumber3"
	FieldContactName2  = "contactName2"
	FieldContactName3  = "contactName3"
)

// Lead status vocabulary.
const (
	StatusNew           = "New"
	StatusCNR           = "CNR"
	StatusBusy          = "Busy"
	StatusFollowUp      = "Follow-up"
	StatusDealClose     = "Deal Close"
	StatusWorkAlloted   = "Work Alloted"
	StatusHotlead       = "Hotlead"
	StatusMandateSent   = "Mandate Sent"
	StatusDocumentation = "Documentation"
	StatusOthers        = "Others"
)

// LeadStatuses is the ordered status vocabulary.
var LeadStatuses = []string{
	StatusNew, StatusCNR, StatusBusy, StatusFollowUp, StatusDealClose,
	StatusWorkAlloted, StatusHotlead, StatusMandateSent, StatusDocumentation, StatusOthers,
}

// MobileNumberSlot is one entry in a lead's contact list.
type MobileNumberSlot struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
	IsMain bool   `json:"isMain"`
}

// Activity is one entry in a lead's event log.
type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Field       string    `json:"field,omitempty"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Lead is a tracked sales prospect.
type Lead struct {
	ID               string             `json:"id"`
	KVA              string             `json:"kva"`
	ConsumerNumber   string             `json:"consumerNumber"`
	Company          string             `json:"company"`
	ClientName       string             `json:"clientName"`
	ConnectionDate   string             `json:"connectionDate"`
	Discom           string             `json:"discom"`
	GIDC             string             `json:"gidc"`
	GSTNumber        string             `json:"gstNumber"`
	UnitType         string             `json:"unitType"`
	Status           string             `json:"status"`
	MobileNumber     string             `json:"mobileNumber"`
	MobileNumbers    []MobileNumberSlot `json:"mobileNumbers"`
	Notes            string             `json:"notes"`
	CompanyLocation  string             `json:"companyLocation"`
	FollowUpDate     string             `json:"followUpDate"`
	LastActivityDate string             `json:"lastActivityDate"`
	FinalConclusion  string             `json:"finalConclusion"`
	MandateStatus    string             `json:"mandateStatus"`
	DocumentStatus   string             `json:"documentStatus"`
	IsDone           bool               `json:"isDone"`
	IsDeleted        bool               `json:"isDeleted"`
	IsUpdated        bool               `json:"isUpdated"`
	Activities       []Activity         `json:"activities"`
	Fields           map[string]any     `json:"fields,omitempty"`
}

// NewLeadID returns an identifier for a manually created lead.
func NewLeadID() string {
	return "lead-" + uuid.NewString()
}

// ImportedLeadID returns the identifier for the index-th accepted row of an
// import batch started at ts.
func ImportedLeadID(ts time.Time, index int) string {
	return "imported-" + strconv.FormatInt(ts.UnixMilli(), 10) + "-" + strconv.Itoa(index)
}

// stringFields maps scalar core keys to their struct fields.
func (l *Lead) stringFields() map[string]*string {
	return map[string]*string{
		FieldKVA:              &l.KVA,
		FieldConsumerNumber:   &l.ConsumerNumber,
		FieldCompany:          &l.Company,
		FieldClientName:       &l.ClientName,
		FieldConnectionDate:   &l.ConnectionDate,
		FieldDiscom:           &l.Discom,
		FieldGIDC:             &l.GIDC,
		FieldGSTNumber:        &l.GSTNumber,
		FieldUnitType:         &l.UnitType,
		FieldStatus:           &l.Status,
		FieldMobileNumber:     &l.MobileNumber,
		FieldNotes:            &l.Notes,
		FieldCompanyLocation:  &l.CompanyLocation,
		FieldFollowUpDate:     &l.FollowUpDate,
		FieldLastActivityDate: &l.LastActivityDate,
		FieldFinalConclusion:  &l.FinalConclusion,
		FieldMandateStatus:    &l.MandateStatus,
		FieldDocumentStatus:   &l.DocumentStatus,
	}
}

// IsCoreField reports whether key names a built-in scalar lead attribute.
func IsCoreField(key string) bool {
	var l Lead
	_, ok := l.stringFields()[key]
	return ok
}

// Get returns the value stored under key, core or dynamic.
func (l *Lead) Get(key string) (any, bool) {
	if p, ok := l.stringFields()[key]; ok {
		return *p, *p != ""
	}
	switch key {
	case FieldMobileNumbers:
		return l.MobileNumbers, len(l.MobileNumbers) > 0
	case FieldMobileNumber2:
		return l.slotValue(1, SlotNumber), l.slotValue(1, SlotNumber) != ""
	case FieldMobileNumber3:
		return l.slotValue(2, SlotNumber), l.slotValue(2, SlotNumber) != ""
	case FieldContactName2:
		return l.slotValue(1, SlotName), l.slotValue(1, SlotName) != ""
	case FieldContactName3:
		return l.slotValue(2, SlotName), l.slotValue(2, SlotName) != ""
	}
	v, ok := l.Fields[key]
	return v, ok
}

// GetString returns the value under key rendered as a string.
func (l *Lead) GetString(key string) string {
	v, ok := l.Get(key)
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

// Set stores value under key. Scalar core keys receive the stringified
// value; unknown keys land in the dynamic field map.
func (l *Lead) Set(key string, value any) {
	if p, ok := l.stringFields()[key]; ok {
		*p = stringify(value)
		return
	}
	if l.Fields == nil {
		l.Fields = make(map[string]any)
	}
	l.Fields[key] = value
}

func (l *Lead) slotValue(index int, kind SlotKind) string {
	if index >= len(l.MobileNumbers) {
		return ""
	}
	if kind == SlotName {
		return l.MobileNumbers[index].Name
	}
	return l.MobileNumbers[index].Number
}

// MainMobile returns the main contact slot, falling back to the first slot
// and then to the legacy scalar number.
func (l *Lead) MainMobile() MobileNumberSlot {
	for _, m := range l.MobileNumbers {
		if m.IsMain {
			return m
		}
	}
	if len(l.MobileNumbers) > 0 {
		return l.MobileNumbers[0]
	}
	return MobileNumberSlot{ID: "1", Number: l.MobileNumber, IsMain: true}
}

// AddActivity appends an event to the lead's log.
func (l *Lead) AddActivity(activityType, field, description string, at time.Time) {
	l.Activities = append(l.Activities, Activity{
		ID:          uuid.NewString(),
		Type:        activityType,
		Field:       field,
		Description: description,
		Timestamp:   at,
	})
}

package services

import "strconv"

// SlotKind selects which half of a contact slot is written.
type SlotKind int

const (
	SlotNumber SlotKind = iota
	SlotName
)

// MaxContactSlots is the number of contact slots addressable by header.
const MaxContactSlots = 3

// slotTarget is the contact slot a virtual field key addresses.
type slotTarget struct {
	Index int
	Kind  SlotKind
}

var slotKeys = map[string]slotTarget{
	FieldMobileNumber:  {0, SlotNumber},
	FieldMobileNumber2: {1, SlotNumber},
	FieldMobileNumber3: {2, SlotNumber},
	FieldContactName2:  {1, SlotName},
	FieldContactName3:  {2, SlotName},
}

// slotForKey reports whether key routes to the contact slot resolver.
func slotForKey(key string) (slotTarget, bool) {
	t, ok := slotKeys[key]
	return t, ok
}

// ApplySlot writes value into the index-th contact slot of lead. Lower slots
// are padded with empty placeholders, slot 0 is backfilled from the legacy
// scalar number when a higher slot is addressed, and only slot 0 is main.
func ApplySlot(lead *Lead, index int, kind SlotKind, value string) {
	if index < 0 {
		return
	}
	if kind == SlotNumber {
		value = CleanPhone(value)
	}

	for len(lead.MobileNumbers) <= index {
		n := len(lead.MobileNumbers)
		lead.MobileNumbers = append(lead.MobileNumbers, MobileNumberSlot{
			ID:     strconv.Itoa(n + 1),
			IsMain: n == 0,
		})
	}

	if index > 0 && lead.MobileNumbers[0].Number == "" && lead.MobileNumber != "" {
		lead.MobileNumbers[0].Number = lead.MobileNumber
	}

	slot := &lead.MobileNumbers[index]
	switch kind {
	case SlotNumber:
		slot.Number = value
		if index == 0 {
			lead.MobileNumber = value
			if slot.Name == "" {
				slot.Name = lead.ClientName
			}
		}
	case SlotName:
		slot.Name = value
	}

	normalizeSlots(lead)
}

// normalizeSlots renumbers slot ids and enforces that exactly the first slot
// is main.
func normalizeSlots(lead *Lead) {
	for i := range lead.MobileNumbers {
		lead.MobileNumbers[i].ID = strconv.Itoa(i + 1)
		lead.MobileNumbers[i].IsMain = i == 0
	}
}

// syncMainSlotName fills an empty main contact name from the client name.
func syncMainSlotName(lead *Lead) {
	if len(lead.MobileNumbers) == 0 {
		return
	}
	if lead.MobileNumbers[0].Name == "" && lead.MobileNumbers[0].Number != "" {
		lead.MobileNumbers[0].Name = lead.ClientName
	}
}

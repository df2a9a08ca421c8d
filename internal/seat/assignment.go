package seat

// Assignment pairs the guest's declared seat with the locker the backend
// assigned for it. LockerID and Location are only ever written together
// with the SeatBlock from the same assignment response.
type Assignment struct {
	SeatBlock  string
	SeatNumber string
	Zone       string
	LockerID   string
	Location   string
}

// HasSeat reports whether a seat has been declared.
func (a *Assignment) HasSeat() bool {
	return a != nil && a.SeatBlock != ""
}

// HasLocker reports whether a locker has been assigned.
func (a *Assignment) HasLocker() bool {
	return a != nil && a.LockerID != "" && a.Location != ""
}

// record is the persisted JSON shape. Field names and nullability are
// fixed by the deployed storage format and must not change.
type record struct {
	SeatBlock      *string `json:"seatBlock"`
	SeatNumber     *string `json:"seatNumber"`
	Zone           *string `json:"zone"`
	LockerName     *string `json:"lockerName"`
	LockerLocation *string `json:"lockerLocation"`
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (a *Assignment) toRecord() record {
	return record{
		SeatBlock:      strOrNil(a.SeatBlock),
		SeatNumber:     strOrNil(a.SeatNumber),
		Zone:           strOrNil(a.Zone),
		LockerName:     strOrNil(a.LockerID),
		LockerLocation: strOrNil(a.Location),
	}
}

func (r record) toAssignment() *Assignment {
	a := &Assignment{
		SeatBlock:  strOrEmpty(r.SeatBlock),
		SeatNumber: strOrEmpty(r.SeatNumber),
		Zone:       strOrEmpty(r.Zone),
		LockerID:   strOrEmpty(r.LockerName),
		Location:   strOrEmpty(r.LockerLocation),
	}
	if !a.HasSeat() && !a.HasLocker() {
		return nil
	}
	return a
}

package visitor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type visitorAlias Visitor

// visitorJSON is the wire form of a Visitor: timestamps use TimeLayout in
// local time and a missing checkout is null.
type visitorJSON struct {
	*visitorAlias
	CheckinTime  string  `json:"checkin_time"`
	CheckoutTime *string `json:"checkout_time"`
}

// MarshalJSON encodes v with TimeLayout timestamps.
func (v Visitor) MarshalJSON() ([]byte, error) {
	alias := visitorAlias(v)
	out := visitorJSON{
		visitorAlias: &alias,
		CheckinTime:  v.CheckinTime.Local().Format(TimeLayout),
	}
	if v.CheckoutTime != nil {
		s := v.CheckoutTime.Local().Format(TimeLayout)
		out.CheckoutTime = &s
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (v *Visitor) UnmarshalJSON(data []byte) error {
	in := visitorJSON{visitorAlias: (*visitorAlias)(v)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	v.CheckinTime = time.Time{}
	if in.CheckinTime != "" {
		t, err := time.ParseInLocation(TimeLayout, in.CheckinTime, time.Local)
		if err != nil {
			return fmt.Errorf("parsing checkin_time: %w", err)
		}
		v.CheckinTime = t
	}

	v.CheckoutTime = nil
	if in.CheckoutTime != nil && *in.CheckoutTime != "" {
		t, err := time.ParseInLocation(TimeLayout, *in.CheckoutTime, time.Local)
		if err != nil {
			return fmt.Errorf("parsing checkout_time: %w", err)
		}
		v.CheckoutTime = &t
	}
	return nil
}

// MarshalJSON encodes the visitor fields plus overstay in one object.
// Without it the promoted Visitor.MarshalJSON would drop Overstay.
func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	b, err := e.Visitor.MarshalJSON()
	if err != nil {
		return nil, err
	}
	b = append(b[:len(b)-1], `,"overstay":`...)
	b = strconv.AppendBool(b, e.Overstay)
	return append(b, '}'), nil
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	if err := e.Visitor.UnmarshalJSON(data); err != nil {
		return err
	}
	var flag struct {
		Overstay bool `json:"overstay"`
	}
	if err := json.Unmarshal(data, &flag); err != nil {
		return err
	}
	e.Overstay = flag.Overstay
	return nil
}

package stay

import "time"

// HourSlots expands a stay into its hourly scoring grid: one slot per fully
// elapsed hour, hr counting from 0 at admission. A stay of 26.5 hours yields
// 26 slots; the trailing fraction of an hour is never scored. Stays whose
// out time does not land after their in time yield no slots.
func HourSlots(st Stay) []HourSlot {
	if !st.OutTime.After(st.InTime) {
		return nil
	}

	hours := int(st.OutTime.Sub(st.InTime) / time.Hour)
	slots := make([]HourSlot, 0, hours)
	for hr := 0; hr < hours; hr++ {
		slots = append(slots, HourSlot{
			StayID:    st.StayID,
			Hr:        hr,
			StartTime: st.InTime.Add(time.Duration(hr) * time.Hour),
			EndTime:   st.InTime.Add(time.Duration(hr+1) * time.Hour),
		})
	}
	return slots
}

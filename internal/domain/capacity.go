package domain

// Remaining returns the number of open participant slots for an event given
// its attendance limit and live participant count. Negative values mean the
// event is over capacity (possible only transiently, never after a
// registration or promotion run).
func Remaining(attendanceLimit, activeParticipants int) int {
	return attendanceLimit - activeParticipants
}

// CanParticipate reports whether a new registrant can be placed directly as
// a participant.
func CanParticipate(attendanceLimit, activeParticipants int) bool {
	return Remaining(attendanceLimit, activeParticipants) > 0
}

// DisplayRemaining is the combined remaining-after-waitlist figure used for
// display: when slots are open but a waitlist exists, the waitlist consumes
// them first, clamped at zero.
func DisplayRemaining(attendanceLimit, activeParticipants, activeApplicants int) int {
	left := Remaining(attendanceLimit, activeParticipants)
	if left > 0 && activeApplicants > 0 {
		if left-activeApplicants < 0 {
			return 0
		}
		return left - activeApplicants
	}
	return left
}

package stream

import "time"

// runRotationTimer closes the session once after connectionLifetime has
// elapsed, so the client never runs into the infrastructure ceiling the
// lifetime is chosen to preempt (spec §4.5). It returns as soon as stop
// fires, so a timer from one session can never leak into the next.
func runRotationTimer(s *session, connectionLifetime time.Duration, stop <-chan struct{}) {
	timer := time.NewTimer(connectionLifetime)
	defer timer.Stop()

	select {
	case <-stop:
		return
	case <-timer.C:
		s.closeWith(closeCodeRotation, "Proactive rotation", false)
	}
}

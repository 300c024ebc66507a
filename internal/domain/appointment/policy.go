package appointment

import "github.com/clinic/booking/internal/platform/auth"

// CanAccess reports whether the actor may read the appointment: admins
// always, doctors and patients only when they are a party to it.
func CanAccess(actor auth.Actor, a *Appointment) bool {
	switch actor.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleDoctor:
		return actor.ID == a.DoctorID
	case auth.RolePatient:
		return actor.ID == a.PatientID
	}
	return false
}

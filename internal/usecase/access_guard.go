package usecase

import (
	"slices"

	"clinic-scheduler/internal/domain/entity"
)

var (
	ErrNotAppointmentParty = newError(ErrForbidden, "you can only manage your own appointments")
	ErrNotDoctorOwner      = newError(ErrForbidden, "only the appointment's doctor can do this")
)

// RequireRole fails with ErrRoleNotAllowed unless the caller holds one of roles
func RequireRole(caller entity.CallerContext, roles ...entity.Role) error {
	if slices.Contains(roles, caller.Role) {
		return nil
	}
	return ErrRoleNotAllowed
}

// IsParty reports whether the caller is the appointment's patient or the user linked to its doctor
func IsParty(caller entity.CallerContext, appointment *entity.Appointment, doctor *entity.Doctor) bool {
	if appointment.IsPatient(caller.ID) {
		return true
	}
	return doctor != nil && doctor.OwnedBy(caller.ID)
}

func RequireParty(caller entity.CallerContext, appointment *entity.Appointment, doctor *entity.Doctor) error {
	if IsParty(caller, appointment, doctor) {
		return nil
	}
	return ErrNotAppointmentParty
}

// RequireDoctorOwner fails unless the caller is the user linked to doctor,
// or an admin when allowAdmin is set.
func RequireDoctorOwner(caller entity.CallerContext, doctor *entity.Doctor, allowAdmin bool) error {
	if allowAdmin && caller.IsAdmin() {
		return nil
	}
	if doctor != nil && doctor.OwnedBy(caller.ID) {
		return nil
	}
	return ErrNotDoctorOwner
}

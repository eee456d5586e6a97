package usecase

import (
	"context"
	"errors"

	"clinic-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// lockDoctor takes the doctor's lock, reporting a wait that ran out as ErrSchedulingBusy
func lockDoctor(ctx context.Context, locker service.DoctorLocker, log *logrus.Logger, doctorID uuid.UUID) (func(), error) {
	unlock, err := locker.Lock(ctx, doctorID)
	if err != nil {
		if errors.Is(err, service.ErrLockNotAcquired) {
			log.Warnf("Doctor %s busy: %+v", doctorID, err)
			return nil, ErrSchedulingBusy
		}
		log.Warnf("Failed to lock doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return unlock, nil
}

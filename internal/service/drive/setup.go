package drive

import (
	driveRepo "drive/internal/domain/repositories/drive"
	driveSvc "drive/internal/domain/services/drive"
)

// Services holds every drive service built over one set of Deps
type Services struct {
	Folders  driveSvc.FolderService
	Files    driveSvc.FileService
	Mover    driveSvc.MoveCoordinator
	Trash    driveSvc.TrashService
	Versions driveSvc.VersionService
	Access   driveSvc.AccessService
}

// SetupServices wires the drive services. activity backs the audit trail
// reads; writes go through deps.Activity.
func SetupServices(deps Deps, activity driveRepo.ActivityRepository) *Services {
	return &Services{
		Folders:  NewFolderService(deps),
		Files:    NewFileService(deps),
		Mover:    NewMoveCoordinator(deps),
		Trash:    NewTrashService(deps),
		Versions: NewVersionService(deps),
		Access:   NewAccessService(deps, activity),
	}
}

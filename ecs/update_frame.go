package ecs

// UpdateFrame is handed to every system during one scheduler tick.
type UpdateFrame struct {
	DeltaTime float64
	Frame     uint64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(frame uint64, dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Frame:     frame,
		Commands:  NewCommands(),
		Storage:   storage,
	}
}

package ecs

// System is one step of the frame pipeline. Systems are structs whose Query
// and Singleton fields are wired by the Scheduler at registration; any other
// fields persist between frames as the system's private state.
type System interface {
	Execute(frame *UpdateFrame)
}

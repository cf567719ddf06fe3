package domain

// ActorRole enumerates operational roles recognized by the engine. Identity
// resolution happens upstream; the engine only receives a resolved actor id
// and role.
type ActorRole string

const (
	RoleDispatcher ActorRole = "DISPATCHER"
	RoleManager    ActorRole = "MANAGER"
	RoleAdmin      ActorRole = "ADMIN"
)

// SystemActor identifies the engine itself for automated side effects such
// as alert auto-resolution.
const SystemActor = "system"

/*
Package ports defines the driven ports (interfaces) for the pairs engine.

These interfaces decouple the game rules from external implementations, allowing
the engine to work with various storage backends, lock providers and event sinks.

# Key Interfaces

  - GameStore: Responsible for persisting and loading the Game of a session.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - EventPublisher: Forwards lifecycle events to external subscribers.
*/
package ports

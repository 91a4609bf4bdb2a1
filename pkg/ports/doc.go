/*
Package ports defines the driven and driving ports (interfaces) of nvimsul.

These interfaces decouple the adapter core from the editor transport, from
persistence backends and from the learning algorithms that consume it.

# Key Interfaces

  - Editor / Spawner: the RPC boundary to one live editor process.
  - SUL: the pre/step/post query interface required by active-learning drivers.
  - Driver: an active-learning algorithm (external collaborator).
  - ObservationStore: persists answered queries across runs.
  - DistributedLocker: prevents two learning runs from sharing one store.
*/
package ports

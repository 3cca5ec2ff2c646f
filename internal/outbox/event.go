package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Event types emitted by this service.
const (
	EventAppointmentBooked    = "scheduling.appointment.booked.v1"
	EventAppointmentCancelled = "scheduling.appointment.cancelled.v1"
	EventPlanCommitted        = "scheduling.plan.committed.v1"
	EventClientRegistered     = "scheduling.client.registered.v1"
)

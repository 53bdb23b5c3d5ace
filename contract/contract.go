//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"talk-it/domain"
)

// Conn is the capability surface the core consumes from a transport
// connection: push a payload, close with a status code, and identify the
// remote end. The transport owns framing, TLS, and idle timeouts.
type Conn interface {
	Send(payload []byte) error
	Close(statusCode int, reason string) error
	RemoteAddr() string
}

// Session pairs a registered participant with the connection that carries it.
type Session struct {
	Participant *domain.Participant
	Conn        Conn
}

type ISessionRegistry interface {
	Add(conn Conn, ip string) *domain.Participant
	Remove(conn Conn) (*domain.Participant, bool)
	GetByConn(conn Conn) (*domain.Participant, bool)
	GetByID(id string) (*domain.Participant, bool)
	ConnByID(id string) (Conn, bool)
	All() []Session
	Count() int
}

type IRateLimiter interface {
	AllowConnection(ip string) bool
	AllowMessage(ip string) bool
	Sweep(olderThan time.Duration)
}

type IBlockList interface {
	Block(ip string)
	Unblock(ip string)
	IsBlocked(ip string) bool
	Snapshot() []string
}

type IMessageStore interface {
	Append(msg domain.Message)
	Recent(n int) []domain.Message
	All() []domain.Message
	Len() int
	Clear()
}

type IRoomCoordinator interface {
	OnJoin(p *domain.Participant)
	OnLeave(p *domain.Participant)
	OnMessage(p *domain.Participant, raw string) domain.Result[domain.Message]
	Broadcast(msg domain.Message) int
}

type WorkerName string

// Worker doesn't protect itself; supervision handles panics and restarts.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// for logging and supervision, so workers don't have to name themselves.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

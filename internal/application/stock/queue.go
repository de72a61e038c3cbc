package stock

import (
	"context"
	"sync"

	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

// tamaño del buffer de tareas pendientes por tenant; lleno => enqueue espera.
const queueDepth = 256

type job struct {
	run  func()
	done chan struct{}
}

// queue serializa las mutaciones: un worker dedicado por tenant consume un
// canal FIFO, de modo que nunca hay más de una mutación en vuelo por tenant y
// el orden de llegada se respeta. Entre tenants no hay garantía de orden (ni
// hace falta). Los workers viven lo que viva el proceso.
type queue struct {
	log *logger.Logger

	mu      sync.Mutex
	workers map[string]chan job
}

func newQueue(log *logger.Logger) *queue {
	return &queue{log: log, workers: make(map[string]chan job)}
}

func (q *queue) channelFor(tenant string) chan job {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.workers[tenant]
	if !ok {
		ch = make(chan job, queueDepth)
		q.workers[tenant] = ch
		go q.worker(tenant, ch)
	}
	return ch
}

func (q *queue) worker(tenant string, ch chan job) {
	for j := range ch {
		q.runJob(tenant, j)
	}
}

// runJob aísla el pánico de una tarea: una tarea rota no puede parar la cola
// ni tumbar las tareas siguientes.
func (q *queue) runJob(tenant string, j job) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			q.log.Error().Str("tenant", tenant).Interface("panic", r).Msg("tarea de mutación abortada")
		}
	}()
	j.run()
}

// enqueue encola fn para el tenant y espera la respuesta. Si ctx vence antes
// de encolar, la tarea no se ejecuta; si vence después, la tarea sigue hasta
// completarse y comitear (las mutaciones de inventario no se abandonan a
// medias): el timeout es sobre la respuesta, no sobre la tarea.
func (q *queue) enqueue(ctx context.Context, tenant string, fn func()) error {
	j := job{run: fn, done: make(chan struct{})}
	select {
	case q.channelFor(tenant) <- j:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

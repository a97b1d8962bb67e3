package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
)

// ParallelOptions configura el comportamiento del procesamiento paralelo
type ParallelOptions struct {
	// MaxWorkers es el número máximo de trabajadores en paralelo
	MaxWorkers int

	// Progress, si no es nil, se llama después de cada elemento terminado
	// con el número de elementos completados y el total. Puede llamarse
	// desde varios goroutines a la vez.
	Progress func(done, total int)
}

// DefaultOptions devuelve opciones predeterminadas para procesamiento paralelo
func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 10,
	}
}

func (o ParallelOptions) workers(n int) int {
	w := o.MaxWorkers
	if w <= 0 {
		w = 10
	}
	if w > n {
		w = n
	}
	return w
}

type result[R any] struct {
	index  int
	result R
	err    error
}

// ProcessParallel procesa elementos en paralelo usando la función de trabajo proporcionada.
// itemFunc se llama para cada elemento y debe devolver un resultado y/o error.
// Devuelve los resultados en el mismo orden que los elementos de entrada.
//
// Si ctx se cancela, los elementos pendientes no se procesan: quedan con el valor
// cero y ctx.Err() se añade una sola vez a la lista de errores.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	jobs := make(chan int, len(items))
	results := make(chan result[R], len(items))

	var done atomic.Int64
	var skipped atomic.Bool

	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jobIndex := range jobs {
				if ctx.Err() != nil {
					skipped.Store(true)
					continue
				}
				r, err := itemFunc(ctx, jobIndex, items[jobIndex])
				results <- result[R]{jobIndex, r, err}
				if opts.Progress != nil {
					opts.Progress(int(done.Add(1)), len(items))
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	resultList := make([]R, len(items))
	var errors []error
	for res := range results {
		if res.err != nil {
			errors = append(errors, res.err)
		}
		resultList[res.index] = res.result
	}
	if skipped.Load() {
		errors = append(errors, ctx.Err())
	}

	return resultList, errors
}

// ForEach ejecuta una función para cada elemento en paralelo, sin recolectar resultados.
// Útil cuando solo necesitas efectos secundarios; itemFunc puede escribir en su propio
// índice de un slice preasignado sin sincronización adicional.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	if len(items) == 0 {
		return nil
	}
	_, errs := ProcessParallel(ctx, items, opts, func(ctx context.Context, index int, item T) (struct{}, error) {
		return struct{}{}, itemFunc(ctx, index, item)
	})
	return errs
}

package parallel

import "sync"

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = DefaultThreads()
	}
	if length <= 0 {
		return // No iterations to perform
	}

	sem := make(chan struct{}, limit) // Semaphore with buffer size 'limit'
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{} // Acquire semaphore
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore after function exits

			body(i)
		}(i)
	}

	wg.Wait() // Wait for all goroutines to finish
}

// Chunk is a half-open row range [Begin, End).
type Chunk struct {
	Begin, End int
}

// Len returns the number of rows in the chunk.
func (c Chunk) Len() int {
	return c.End - c.Begin
}

// Chunks splits length rows into at most n contiguous chunks of nearly equal
// size, in ascending order. It never returns an empty chunk.
func Chunks(length, n int) (o []Chunk) {
	if length <= 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	if n > length {
		n = length
	}
	size, rest := length/n, length%n
	begin := 0
	for i := 0; i < n; i++ {
		end := begin + size
		if i < rest {
			end++
		}
		o = append(o, Chunk{begin, end})
		begin = end
	}
	return
}

// ForEachChunk splits length rows into chunks, one per worker, and runs body
// on each chunk concurrently. Body receives the chunk number, so per-chunk
// results can be reduced afterwards in a fixed order.
func ForEachChunk(length, limit int, body func(n int, c Chunk)) int {
	if limit <= 0 {
		limit = DefaultThreads()
	}
	chunks := Chunks(length, limit)
	ForEach(len(chunks), limit, func(i int) {
		body(i, chunks[i])
	})
	return len(chunks)
}

package evaluation

import (
	"runtime"
	"sync"
)

// EvaluationResult records whether one query sample lies inside the k-NN
// manifold of the reference samples.
type EvaluationResult struct {
	Id              int64
	Vector          Vector
	InManifold      bool
	NearestId       int64
	NearestDistance float32 // squared euclidean distance
}

/**
* Strictly speaking, this is not the Euclidean distance but squared Euclidean distance
* However, since we only care about relative distances, we may omit the square root for performance
 */
func euclideanDistance(a []float32, b []float32) (dist float32) {
	for i := range a {
		diff := a[i] - b[i]
		dist += diff * diff
	}
	return
}

type neighbor struct {
	id       int64
	distance float32
}

/**
* SortedNeighbors maintains a sorted list of the k closest neighbors found so far.
* Neighbors are sorted by distance in ascending order (closest first).
 */
type sortedNeighbors []neighbor

func (h sortedNeighbors) InsertSorted(n neighbor, k int) sortedNeighbors {
	for i := range len(h) {
		if n.distance < h[i].distance {
			h = append(h[:i+1], h[i:]...)
			h[i] = n
			if len(h) > k {
				h = h[:k]
			}
			return h
		}
	}
	// Append if distance is larger than all existing but list is under capacity
	if len(h) < k {
		h = append(h, n)
	}
	return h
}

// nearestNeighborsSequential performs brute-force k-NN search sequentially (used for small datasets).
func nearestNeighborsSequential(query Vector, rawData []DataRow, k int) sortedNeighbors {
	sorted := make(sortedNeighbors, 0, k)
	for _, row := range rawData {
		dist := euclideanDistance(query, row.Vector)
		sorted = sorted.InsertSorted(neighbor{id: row.Id, distance: dist}, k)
	}
	return sorted
}

// mergeNeighbors merges multiple sorted neighbor lists into a single sorted list of k nearest.
func mergeNeighbors(lists []sortedNeighbors, k int) sortedNeighbors {
	merged := make(sortedNeighbors, 0, k)
	for _, list := range lists {
		for _, n := range list {
			merged = merged.InsertSorted(n, k)
		}
	}
	return merged
}

// nearestNeighbors performs parallel brute-force k-NN search.
func nearestNeighbors(query Vector, rawData []DataRow, k int) sortedNeighbors {
	numWorkers := runtime.NumCPU()
	dataLen := len(rawData)

	// Split data into chunks for parallel processing
	chunkSize := (dataLen + numWorkers - 1) / numWorkers
	results := make([]sortedNeighbors, numWorkers)
	var wg sync.WaitGroup

	for i := range numWorkers {
		start := i * chunkSize
		if start >= dataLen {
			break
		}
		end := min(start+chunkSize, dataLen)

		wg.Add(1)
		go func(workerIdx int, chunk []DataRow) {
			defer wg.Done()
			results[workerIdx] = nearestNeighborsSequential(query, chunk, k)
		}(i, rawData[start:end])
	}

	wg.Wait()

	// Merge results from all workers
	return mergeNeighbors(results, k)
}

// parallelOver calls fn for every index in [0, n) on a pool of workers (based on number of CPU cores).
func parallelOver(n int, fn func(idx int)) {
	numWorkers := min(runtime.NumCPU(), n)
	idxChan := make(chan int, n)
	var wg sync.WaitGroup

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				fn(idx)
			}
		}()
	}

	for i := range n {
		idxChan <- i
	}
	close(idxChan)

	wg.Wait()
}

/**
* ManifoldRadii returns, for each reference row, the squared distance to its
* k-th nearest neighbour among the other reference rows. The ball of that radius
* around every row approximates the support of the reference distribution.
 */
func ManifoldRadii(reference []DataRow, k int) map[int64]float32 {
	radii := make([]float32, len(reference))
	parallelOver(len(reference), func(idx int) {
		// k+1 because the row itself is its own nearest neighbour
		neighbors := nearestNeighbors(reference[idx].Vector, reference, k+1)
		radii[idx] = neighbors[len(neighbors)-1].distance
	})

	byId := make(map[int64]float32, len(reference))
	for i, row := range reference {
		byId[row.Id] = radii[i]
	}
	return byId
}

// InManifold checks query against the candidate reference rows and reports
// whether any of them contains it within its radius. Candidates are
// typically all reference rows (exact) or the ids returned by a neighbour search.
func InManifold(query DataRow, candidates []int64, reference map[int64]DataRow, radii map[int64]float32) EvaluationResult {
	result := EvaluationResult{Id: query.Id, Vector: query.Vector, NearestId: -1}
	for _, id := range candidates {
		row, ok := reference[id]
		if !ok {
			continue
		}
		dist := euclideanDistance(query.Vector, row.Vector)
		if result.NearestId < 0 || dist < result.NearestDistance {
			result.NearestId = id
			result.NearestDistance = dist
		}
		if dist <= radii[id] {
			result.InManifold = true
		}
	}
	return result
}

func IndexRows(rows []DataRow) (map[int64]DataRow, []int64) {
	byId := make(map[int64]DataRow, len(rows))
	ids := make([]int64, len(rows))
	for i, row := range rows {
		byId[row.Id] = row
		ids[i] = row.Id
	}
	return byId, ids
}

func FractionInManifold(results []EvaluationResult) float64 {
	// Avoid divide by zero
	if len(results) == 0 {
		return 0.0
	}
	matches := 0
	for _, r := range results {
		if r.InManifold {
			matches++
		}
	}
	return float64(matches) / float64(len(results))
}

// EvaluateManifold checks every query row against the exact k-NN manifold of reference.
func EvaluateManifold(reference []DataRow, queries []DataRow, k int) ([]EvaluationResult, float64) {
	radii := ManifoldRadii(reference, k)
	byId, ids := IndexRows(reference)

	results := make([]EvaluationResult, len(queries))
	parallelOver(len(queries), func(idx int) {
		results[idx] = InManifold(queries[idx], ids, byId, radii)
	})
	return results, FractionInManifold(results)
}

// Evaluation holds the manifold precision and recall of a candidate against a target.
type Evaluation struct {
	TargetVariant    string
	CandidateVariant string
	Samples          int
	K                int
	Rotated          bool
	Precision        float64 // fraction of candidate samples inside the target manifold
	Recall           float64 // fraction of target samples inside the candidate manifold
	Results          []EvaluationResult
}

// Evaluate computes exact precision and recall by brute force.
func Evaluate(target []DataRow, candidate []DataRow, k int) Evaluation {
	results, precision := EvaluateManifold(target, candidate, k)
	_, recall := EvaluateManifold(candidate, target, k)
	return Evaluation{
		Samples:   len(candidate),
		K:         k,
		Precision: precision,
		Recall:    recall,
		Results:   results,
	}
}

package finder

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/harrison/dupfind/internal/models"
)

// ProgressFunc observes hashing progress. done counts files processed so far,
// including failures; total is the number of files queued for hashing.
// It is always called from the goroutine running Verify.
type ProgressFunc func(done, total int)

// HashFunc computes a content digest for one file
type HashFunc func(ctx context.Context, path string, buf []byte) (string, error)

// VerifyStats summarizes one Verify call
type VerifyStats struct {
	Hashed   int // files hashed successfully
	Failures int // files dropped because they could not be read
}

// Verifier turns size groups into content-confirmed hash groups
type Verifier struct {
	// Workers bounds the number of files hashed concurrently (<= 0 means NumCPU)
	Workers int
	// Progress is notified after every file
	Progress ProgressFunc
	// Logger receives one warning per unreadable file
	Logger Logger
	// Hash computes a digest; defaults to HashFile
	Hash HashFunc
}

type hashJob struct {
	group  int
	member int
	path   string
}

type hashResult struct {
	hashJob
	digest string
	err    error
}

// Verify hashes every member of groups and returns the digest groups with at
// least two members. Groups come back ordered by size, then by hash; members
// keep their order from the size group.
func (v *Verifier) Verify(ctx context.Context, groups []models.SizeGroup) ([]models.HashGroup, VerifyStats, error) {
	var stats VerifyStats

	total := CountMembers(groups)
	if total == 0 {
		return []models.HashGroup{}, stats, nil
	}

	workers := v.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > total {
		workers = total
	}

	hash := v.Hash
	if hash == nil {
		hash = HashFile
	}
	log := v.Logger
	if log == nil {
		log = nopLogger{}
	}

	// digests[g][m] is the digest of member m in group g ("" when hashing failed)
	digests := make([][]string, len(groups))
	for i, g := range groups {
		digests[i] = make([]string, len(g.Files))
	}

	jobs := make(chan hashJob)
	results := make(chan hashResult)

	// Producer stops feeding jobs as soon as ctx is cancelled
	go func() {
		defer close(jobs)
		for gi, g := range groups {
			for mi, f := range g.Files {
				select {
				case jobs <- hashJob{group: gi, member: mi, path: f.Path}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, HashBufferSize)
			for job := range jobs {
				if ctx.Err() != nil {
					// Drain remaining jobs without hashing
					continue
				}
				digest, err := hash(ctx, job.path, buf)
				results <- hashResult{hashJob: job, digest: digest, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	processed := 0
	for res := range results {
		processed++
		if res.err != nil {
			if ctx.Err() == nil {
				stats.Failures++
				log.LogWarn(fmt.Sprintf("Error reading file: %s: %v", res.path, res.err))
			}
		} else {
			stats.Hashed++
			digests[res.group][res.member] = res.digest
		}
		if v.Progress != nil {
			v.Progress(processed, total)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	hashGroups := make([]models.HashGroup, 0)
	for gi, g := range groups {
		hashGroups = append(hashGroups, groupByDigest(g, digests[gi])...)
	}

	return hashGroups, stats, nil
}

// groupByDigest splits one size group by digest, dropping failed members and
// singleton digests. Result is ordered by hash.
func groupByDigest(g models.SizeGroup, digests []string) []models.HashGroup {
	byHash := make(map[string][]models.FileRecord)
	for i, f := range g.Files {
		d := digests[i]
		if d == "" {
			continue
		}
		byHash[d] = append(byHash[d], f)
	}

	groups := make([]models.HashGroup, 0, len(byHash))
	for h, files := range byHash {
		if len(files) < 2 {
			continue
		}
		groups = append(groups, models.HashGroup{Size: g.Size, Hash: h, Files: files})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Hash < groups[j].Hash
	})
	return groups
}

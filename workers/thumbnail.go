package workers

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/muster-archive/musterbackend/config"
	"github.com/muster-archive/musterbackend/utils"
)

type ThumbnailJob struct {
	OriginalImagePath    string
	OriginalRelativePath string
}

// ThumbnailGenerator produces fixed-width browse thumbnails for scanned pages
// on a bounded worker pool.
type ThumbnailGenerator struct {
	JobQueue chan ThumbnailJob
	Config   config.Config
	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex
}

func NewThumbnailGenerator(cfg config.Config, queueSize, numWorkers int) *ThumbnailGenerator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	gen := &ThumbnailGenerator{
		JobQueue: make(chan ThumbnailJob, queueSize),
		Config:   cfg,
		StopChan: make(chan struct{}),
		Pending:  make(map[string]bool),
	}

	gen.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go gen.worker(i)
	}
	log.Printf("started %d thumbnail worker(s) with queue size %d", numWorkers, queueSize)

	return gen
}

func (tg *ThumbnailGenerator) worker(id int) {
	defer tg.Wg.Done()
	log.Printf("thumbnail worker %d started", id)
	for {
		select {
		case job, ok := <-tg.JobQueue:
			if !ok {
				log.Printf("thumbnail worker %d stopping: Job queue closed", id)
				return
			}
			tg.processJob(job)
			tg.Mutex.Lock()
			delete(tg.Pending, job.OriginalRelativePath)
			tg.Mutex.Unlock()

		case <-tg.StopChan:
			log.Printf("thumbnail worker %d stopping: stop signal received", id)
			return
		}
	}
}

func (tg *ThumbnailGenerator) processJob(job ThumbnailJob) {
	srcInfo, err := os.Stat(job.OriginalImagePath)
	if os.IsNotExist(err) {
		log.Printf("original file %s not found, skipping thumbnail generation", job.OriginalImagePath)
		return
	} else if err != nil {
		log.Printf("error stating original file %s before thumbnail generation: %v", job.OriginalImagePath, err)
	}

	// deterministic output name lets re-runs skip work already done
	thumbPath := filepath.Join(tg.Config.ThumbnailsPath,
		utils.ThumbnailName(filepath.Base(job.OriginalImagePath), tg.Config.ThumbnailWidth))
	if thumbInfo, err := os.Stat(thumbPath); err == nil && srcInfo != nil && !thumbInfo.ModTime().Before(srcInfo.ModTime()) {
		return
	}

	savedPath, err := utils.GenerateThumbnail(
		job.OriginalImagePath,
		tg.Config.ThumbnailsPath,
		tg.Config.ThumbnailWidth,
	)
	if err != nil {
		log.Printf("ERROR generating thumbnail for %s (relative: %s): %v",
			job.OriginalImagePath, job.OriginalRelativePath, err)
		return
	}

	log.Printf("generated thumbnail for %s at %s", job.OriginalRelativePath, savedPath)
}

func (tg *ThumbnailGenerator) QueueJob(job ThumbnailJob) bool {
	tg.Mutex.Lock()
	if tg.Pending[job.OriginalRelativePath] {
		tg.Mutex.Unlock()
		return false
	}

	tg.Pending[job.OriginalRelativePath] = true
	tg.Mutex.Unlock()

	select {
	case tg.JobQueue <- job:
		return true
	default:
		log.Printf("WARNING: Thumbnail job queue full!!!! failed to queue job for: %s", job.OriginalRelativePath)
		tg.Mutex.Lock()
		delete(tg.Pending, job.OriginalRelativePath)
		tg.Mutex.Unlock()
		return false
	}
}

// ScanImages walks the images root and queues a thumbnail job for every
// scanned page, skipping the thumbnails directory itself.
func (tg *ThumbnailGenerator) ScanImages() {
	queued := 0
	err := filepath.Walk(tg.Config.ImagesPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("error walking %s: %v", path, err)
			return nil
		}
		if info.IsDir() {
			if path == tg.Config.ThumbnailsPath {
				return filepath.SkipDir
			}
			return nil
		}
		if !utils.IsRasterImage(info.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(tg.Config.ImagesPath, path)
		if relErr != nil {
			rel = info.Name()
		}
		if tg.QueueJob(ThumbnailJob{OriginalImagePath: path, OriginalRelativePath: rel}) {
			queued++
		}
		return nil
	})
	if err != nil {
		log.Printf("error scanning images directory %s: %v", tg.Config.ImagesPath, err)
	}
	log.Printf("queued %d thumbnail job(s) from %s", queued, tg.Config.ImagesPath)
}

func (tg *ThumbnailGenerator) Stop() {
	log.Println("stopping thumbnail generator...")
	close(tg.StopChan)
	tg.Wg.Wait()
	log.Println("all thumbnail workers stopped")
}

package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/daytrip/internal/logger"
)

// summarySeparator frames the download summary.
const summarySeparator = "═══════════════════════════════════════════════════════════════"

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// recordResult counts a successful pipeline run.
func (s *ServiceImpl) recordResult(result *DownloadResult) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	if result.IsSkipped {
		s.stats.TracksSkipped++

		return
	}

	s.stats.TracksDownloaded++
	s.stats.TotalBytesStreamed += result.BytesStreamed
	s.stats.TotalBytesWritten += result.BytesWritten
}

// incrementFailedAttempt counts a pipeline run that ended with an error.
func (s *ServiceImpl) incrementFailedAttempt() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.FailedAttempts++
}

// recordAbort remembers the item that exhausted its retries.
func (s *ServiceImpl) recordAbort(reference Reference, err error) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.AbortedOn = reference.String()
	s.stats.AbortReason = err.Error()
}

// statistics returns a copy of the current statistics.
func (s *ServiceImpl) statistics() DownloadStatistics {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	return *s.stats
}

// PrintDownloadSummary prints a formatted summary of download statistics.
func (s *ServiceImpl) PrintDownloadSummary(ctx context.Context) {
	stats := s.statistics()

	// If nothing was processed, don't print summary.
	if stats.TracksDownloaded+stats.TracksSkipped+stats.FailedAttempts == 0 && stats.AbortedOn == "" {
		return
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted)
	s.printTrackStatistics(ctx, &stats)
	s.printDataTransferStatistics(ctx, &stats)
	logger.Info(ctx, summarySeparator)
	s.printFinalMessage(ctx, wasInterrupted, &stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)

	if wasInterrupted {
		logger.Info(ctx, "           DOWNLOAD SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                     DOWNLOAD SUMMARY")
	}

	logger.Info(ctx, summarySeparator)
}

// printTrackStatistics prints per-item counters.
func (s *ServiceImpl) printTrackStatistics(ctx context.Context, stats *DownloadStatistics) {
	processed := stats.TracksDownloaded + stats.TracksSkipped

	logger.Infof(ctx, "Tracks:           %d total processed", processed)

	if stats.TracksDownloaded > 0 {
		logger.Infof(ctx, "  Downloaded:      %d", stats.TracksDownloaded)
	}

	if stats.TracksSkipped > 0 {
		logger.Infof(ctx, "  Already Exist:   %d", stats.TracksSkipped)
	}

	if stats.FailedAttempts > 0 {
		logger.Infof(ctx, "  Failed Attempts: %d", stats.FailedAttempts)
	}

	// Success rate over every attempt, retries included.
	if attempts := processed + stats.FailedAttempts; attempts > 0 {
		successRate := float64(processed) / float64(attempts) * 100
		logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
	}
}

// printDataTransferStatistics prints data transfer statistics.
func (s *ServiceImpl) printDataTransferStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.TotalBytesStreamed > 0 {
		logger.Info(ctx, "")
		//nolint:gosec // Byte counters are never negative.
		logger.Infof(ctx, "Audio Streamed:   %s", humanize.Bytes(uint64(stats.TotalBytesStreamed)))
		//nolint:gosec // Byte counters are never negative.
		logger.Infof(ctx, "Files Written:    %s", humanize.Bytes(uint64(stats.TotalBytesWritten)))
	}

	if stats.StartTime.IsZero() || stats.EndTime.IsZero() {
		return
	}

	duration := stats.EndTime.Sub(stats.StartTime)

	// Only show if duration is meaningful (> 100ms).
	if duration <= 100*time.Millisecond {
		return
	}

	logger.Infof(ctx, "Duration:         %s", formatDuration(duration))

	if stats.TotalBytesStreamed > 0 {
		bytesPerSecond := float64(stats.TotalBytesStreamed) / duration.Seconds()
		logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(uint64(bytesPerSecond)))
	}
}

// printFinalMessage prints a helpful message based on download results.
func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *DownloadStatistics) {
	switch {
	case wasInterrupted:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Download interrupted by user (CTRL+C).")

		if stats.TracksDownloaded > 0 {
			logger.Infof(ctx, "Successfully downloaded %d track(s) before interruption.", stats.TracksDownloaded)
		}
	case stats.AbortedOn != "":
		logger.Info(ctx, "")
		logger.Errorf(ctx, "Download aborted on %s: %s", stats.AbortedOn, stats.AbortReason)
		logger.Info(ctx, "Run the same command again to resume, finished files are skipped.")
	case stats.TracksDownloaded > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All downloads completed successfully!")
	case stats.TracksSkipped > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All tracks already exist in the output directory.")
	}
}

// Package ingest implements a streaming parser: it reads the hotel and
// offer sources in bounded chunks, never materializing either file whole,
// and produces a fully initialized snapshot.Snapshot.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"sync"
	"time"

	"github.com/scrapbird/holidayfinder/internal/columnstore"
	"github.com/scrapbird/holidayfinder/internal/config"
	"github.com/scrapbird/holidayfinder/internal/hoteltable"
	"github.com/scrapbird/holidayfinder/internal/index"
	"github.com/scrapbird/holidayfinder/internal/obs"
	"github.com/scrapbird/holidayfinder/internal/snapshot"
	"github.com/scrapbird/holidayfinder/internal/stringpool"
)

// Ingestor runs one ingest pass.
type Ingestor struct {
	cfg config.Config
	logger obs.Logger
	progress ProgressFunc
}

// New returns an Ingestor. progress may be nil.
func New(cfg config.Config, logger obs.Logger, progress ProgressFunc) *Ingestor {
	if logger == nil {
		logger = obs.Nop
	}
	return &Ingestor{cfg: cfg, logger: logger, progress: progress}
}

func (in *Ingestor) emit(stage Stage, pct int, msg string) {
	if in.progress != nil {
		in.progress(ProgressEvent{Stage: stage, Percentage: pct, Message: msg})
	}
	in.logger.Log("info", msg)
}

// Run executes the full pipeline: parse hotels, parse offers (with worker
// parallelism), build indexes, and assemble the Snapshot. A missing source
// is fatal, zero hotels ingested is fatal, and zero offers ingested is only
// a warning — the system comes up but every query returns empty.
func (in *Ingestor) Run(ctx context.Context) (*snapshot.Snapshot, error) {
	start := time.Now()

	in.emit(StageParsingHotels, 0, "opening hotel source "+in.cfg.Paths.Hotels)
	hotelSrc, err := openSource(in.cfg.Paths.Hotels)
	if err != nil {
		return nil, err
	}
	hotels := hoteltable.NewWithCapacity(in.cfg.MaxHotels)
	hotelsIngested, hotelErrors, err := parseHotels(hotelSrc, hotels, in.cfg.Ingest.SkipErrors)
	hotelSrc.Close()
	if err != nil {
		return nil, err
	}
	in.emit(StageParsingHotels, 100, "hotels ingested")
	if hotelsIngested == 0 {
		return nil, errInternal("zero hotels ingested", nil)
	}

	in.emit(StageParsingOffers, 0, "opening offer source "+in.cfg.Paths.Offers)
	offerSrc, err := openSource(in.cfg.Paths.Offers)
	if err != nil {
		return nil, err
	}
	pool := stringpool.NewWithCapacity(4096)
	columns := columnstore.New(in.cfg.MaxOffers)
	offersIngested, offerErrors, err := in.runOfferPipeline(ctx, offerSrc, pool, columns)
	offerSrc.Close()
	if err != nil {
		return nil, err
	}
	in.emit(StageParsingOffers, 100, "offers ingested")
	if offersIngested == 0 {
		in.logger.Log("warn", "zero offers ingested: queries will return empty results")
	}

	in.emit(StageBuildingIndexes, 0, "building indexes")
	idx := index.Build(columns, hotels)
	in.emit(StageBuildingIndexes, 100, "indexes built")

	in.emit(StageFinalize, 100, "snapshot ready")

	return &snapshot.Snapshot{
		Pool: pool,
		Columns: columns,
		Hotels: hotels,
		Indexes: idx,
		Stats: snapshot.Stats{
			BuiltAt: time.Now(),
			IngestDuration: time.Since(start),
			HotelsIngested: hotelsIngested,
			OffersIngested: offersIngested,
			HotelRowErrors: hotelErrors,
			OfferRowErrors: offerErrors,
			IndexBytes: idx.EstimateBytes(),
		},
	}, nil
}

// batch is a sequence-numbered group of raw records read off the offer
// stream, the unit of work handed to worker goroutines.
type batch struct {
	seq int
	records [][]string
}

// batchResult is a batch's locally-built shard: the parsed rows plus error
// count, still tagged with seq so the reducer can apply shards back in
// the original row order.
type batchResult struct {
	seq int
	offers []rawOffer
	dropped int
}

func (in *Ingestor) runOfferPipeline(ctx context.Context, r io.Reader, pool *stringpool.Pool, columns *columnstore.Store) (ingested int, rowErrors int, err error) {
	cr := csv.NewReader(r)
	cr.Comma = ','
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, herr := cr.Read(); herr != nil {
		if herr == io.EOF {
			return 0, 0, nil
		}
		return 0, 0, herr
	}

	workers := in.cfg.Ingest.Workers
	if workers < 1 {
		workers = 1
	}
	batchSize := batchSizeFor(in.cfg.Ingest.ChunkBytes)

	batches := make(chan batch, workers*2)
	results := make(chan batchResult, workers*2)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range batches {
				offers := make([]rawOffer, 0, len(b.records))
				dropped := 0
				for _, rec := range b.records {
					o, ok := parseOfferRow(rec)
					if !ok {
						dropped++
						continue
					}
					offers = append(offers, o)
				}
				results <- batchResult{seq: b.seq, offers: offers, dropped: dropped}
			}
		}()
	}

	// Producer: read records off the single CSV stream and fan them out in
	// row-ordered batches.
	readErr := make(chan error, 1)
	go func() {
		defer close(batches)
		seq := 0
		var cur []string
		buf := make([][]string, 0, batchSize)
		for {
			rec, rerr := cr.Read()
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				if in.cfg.Ingest.SkipErrors {
					rowErrors++ // best-effort; exact row lost to a structural CSV error
					continue
				}
				readErr <- rerr
				return
			}
			cur = rec
			if isBlankRow(cur) {
				continue
			}
			buf = append(buf, cur)
			if len(buf) >= batchSize {
				batches <- batch{seq: seq, records: buf}
				seq++
				buf = make([][]string, 0, batchSize)
			}
			select {
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			default:
			}
		}
		if len(buf) > 0 {
			batches <- batch{seq: seq, records: buf}
		}
		readErr <- nil
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Reducer: reassemble shards in original order and append into the
	// single-threaded ColumnStore/StringPool/HotelTable.
	pending := make(map[int]batchResult)
	next := 0
	processedSinceProgress := 0
	for res := range results {
		pending[res.seq] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			for _, o := range r.offers {
				columns.Append(columnstore.Offer{
					HotelID: o.HotelID,
					Price: o.Price,
					Adults: o.Adults,
					Children: o.Children,
					OutboundDepartTS: o.OutboundDepartTS,
					OutboundArriveTS: o.OutboundArriveTS,
					InboundDepartTS: o.InboundDepartTS,
					InboundArriveTS: o.InboundArriveTS,
					OutboundDepartAirport: pool.Intern(o.OutboundDepartAirport),
					InboundDepartAirport: pool.Intern(o.InboundDepartAirport),
					OutboundArriveAirport: pool.Intern(o.OutboundArriveAirport),
					InboundArriveAirport: pool.Intern(o.InboundArriveAirport),
					MealType: pool.Intern(o.MealType),
					RoomType: pool.Intern(o.RoomType),
					OceanView: o.OceanView,
					DurationNights: columnstore.DeriveDurationNights(o.OutboundDepartTS, o.InboundDepartTS),
				})
				ingested++
			}
			rowErrors += r.dropped
			processedSinceProgress += len(r.offers) + r.dropped
			if processedSinceProgress >= progressRowInterval {
				processedSinceProgress = 0
				in.emit(StageParsingOffers, estimatePercent(ingested, in.cfg.MaxOffers), "offers ingested so far: "+itoaInt(ingested))
			}
		}
	}

	if err := <-readErr; err != nil {
		return ingested, rowErrors, err
	}
	return ingested, rowErrors, nil
}

// estimatePercent gives a best-effort 0..100 progress figure against the
// configured maxOffers pre-allocation cap, since the true total row count
// is unknown while streaming ( percentage is necessarily an
// estimate for an unbounded stream).
func estimatePercent(ingested, maxOffers int) int {
	if maxOffers <= 0 {
		return 0
	}
	pct := ingested * 100 / maxOffers
	if pct > 100 {
		pct = 100
	}
	return pct
}

func batchSizeFor(chunkBytes int) int {
	// Approximate an average offer row at ~160 bytes of delimited text;
	// this only sizes the work unit handed to a worker goroutine, not any
	// on-disk structure, so an approximation is all requires.
	const avgRowBytes = 160
	if chunkBytes <= 0 {
		return 2000
	}
	n := chunkBytes / avgRowBytes
	if n < 100 {
		return 100
	}
	return n
}

func itoaInt(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

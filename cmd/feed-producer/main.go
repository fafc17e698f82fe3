package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/xyVar/KLDAFinTech/internal/domain/tick"
	"github.com/xyVar/KLDAFinTech/internal/usecase/ingest"
)

// walker holds the random-walk state of one simulated symbol.
type walker struct {
	symbol string
	bid    float64
	spread float64
}

// step advances the walk and emits one raw tick. Roughly a third of the ticks
// are executed trades carrying volume; the rest are quote updates.
func (w *walker) step(now time.Time) ingest.RawTick {
	w.bid += (rand.Float64() - 0.5) * w.bid * 0.001
	if w.bid <= 0 {
		w.bid = 0.01
	}

	flags := tick.FlagBid | tick.FlagAsk
	var volume int64
	if rand.Float64() < 0.35 {
		flags |= tick.FlagLast | tick.FlagVolume
		volume = int64(rand.Intn(500) + 1)
		if rand.Float64() < 0.5 {
			flags |= tick.FlagBuy
		} else {
			flags |= tick.FlagSell
		}
	}

	return ingest.RawTick{
		Symbol:    w.symbol,
		Bid:       round(w.bid),
		Ask:       round(w.bid + w.spread),
		Spread:    round(w.spread),
		Volume:    volume,
		Flags:     flags,
		Timestamp: now.UTC().Format("2006-01-02 15:04:05.000000"),
	}
}

func round(v float64) float64 {
	return float64(int(v*100)) / 100
}

func main() {
	var (
		brokers = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic   = flag.String("topic", "ticks", "Kafka topic name")
		symbols = flag.String("symbols", "TSLA.US,NVDA.US,NatGas", "Feed symbols (comma-separated)")
		delay   = flag.Duration("delay", 50*time.Millisecond, "Delay between ticks")
		count   = flag.Int("count", 10000, "Number of ticks to send")
	)
	flag.Parse()

	walkers := make([]*walker, 0)
	for _, sym := range strings.Split(*symbols, ",") {
		base := 50 + rand.Float64()*400
		walkers = append(walkers, &walker{
			symbol: strings.TrimSpace(sym),
			bid:    base,
			spread: base * 0.0005,
		})
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	log.Printf("Sending %d ticks for %d symbols to %s, topic %s", *count, len(walkers), *brokers, *topic)

	sent := 0
	for i := 0; i < *count; i++ {
		w := walkers[rand.Intn(len(walkers))]
		raw := w.step(time.Now())

		payload, err := json.Marshal(raw)
		if err != nil {
			log.Printf("Failed to marshal tick %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{
			Key:   []byte(raw.Symbol),
			Value: payload,
			Time:  time.Now(),
		}
		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send tick %d (%s): %v", i+1, raw.Symbol, err)
			continue
		}
		sent++

		if sent%1000 == 0 {
			log.Printf("Sent %d/%d ticks, last: %s bid=%.2f ask=%.2f", sent, *count, raw.Symbol, raw.Bid, raw.Ask)
		}

		if i < *count-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Done, sent %d ticks", sent)
}

package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/helpertest"
	"github.com/htools/sitecheck/model"
)

var _ = Describe("Gateway", func() {
	var (
		sut  *Gateway
		node *fakeNode
		cfg  config.Ledger
		ctx  context.Context
	)

	BeforeEach(func() {
		var cancel context.CancelFunc

		ctx, cancel = context.WithCancel(context.Background())
		DeferCleanup(cancel)

		node = newFakeNode()
		node.height = 100

		cfg = config.Ledger{
			Timeout:      config.Duration(time.Second),
			MaxWalkDepth: 64,
		}
	})

	JustBeforeEach(func() {
		cfg.URL = node.start().URL
		sut = NewGateway(cfg)
	})

	Describe("CurrentHeight", func() {
		It("should return the chain tip", func() {
			height, err := sut.CurrentHeight(ctx)
			Expect(err).Should(Succeed())
			Expect(height).Should(Equal(int64(100)))
		})

		When("the node requires an api key", func() {
			BeforeEach(func() {
				node.apiKey = "secret"
			})

			It("should authenticate with the configured key", func() {
				cfg.APIKey = "secret"
				sut = NewGateway(cfg)

				_, err := sut.CurrentHeight(ctx)
				Expect(err).Should(Succeed())
			})

			It("should fail without key", func() {
				_, err := sut.CurrentHeight(ctx)

				var ledgerErr *LedgerError
				Expect(errors.As(err, &ledgerErr)).Should(BeTrue())
				Expect(err.Error()).Should(ContainSubstring("401"))
			})
		})

		When("the node is not reachable", func() {
			It("should return a ledger error", func() {
				cfg.URL = "http://127.0.0.1:1"
				sut = NewGateway(cfg)

				_, err := sut.CurrentHeight(ctx)

				var ledgerErr *LedgerError
				Expect(errors.As(err, &ledgerErr)).Should(BeTrue())
			})
		})
	})

	Describe("LatestUpdate", func() {
		BeforeEach(func() {
			node.resources["example"] = &model.Resource{Records: []model.Record{
				{Type: model.RecordTypeDS, KeyTag: 12345, Algorithm: 13, DigestType: 2, Digest: "abcd"},
				{Type: model.RecordTypeNS, NS: "ns1.example."},
			}}
		})

		When("the owner output is the update itself", func() {
			BeforeEach(func() {
				node.names["example"] = &NameInfo{Name: "example", Owner: Outpoint{Hash: "aa", Index: 0}}
				node.addTx("aa", 90, []string{ActionUpdate})
			})

			It("should return its height and the resource", func() {
				update, err := sut.LatestUpdate(ctx, "example")
				Expect(err).Should(Succeed())
				Expect(update.Height).Should(Equal(int64(90)))
				Expect(update.Resource.HasDS()).Should(BeTrue())
				Expect(update.Resource.Records).Should(HaveLen(2))
			})
		})

		When("later transactions only transferred or renewed the name", func() {
			BeforeEach(func() {
				node.names["example"] = &NameInfo{Name: "example", Owner: Outpoint{Hash: "cc", Index: 1}}
				node.addTx("cc", 99, []string{"NONE", "RENEW"},
					Outpoint{Hash: "00", Index: 0}, Outpoint{Hash: "bb", Index: 0})
				node.addTx("bb", 95, []string{"TRANSFER"}, Outpoint{Hash: "aa", Index: 2})
				node.addTx("aa", 72, []string{"NONE", "NONE", ActionRegister})
			})

			It("should walk back to the last resource write", func() {
				update, err := sut.LatestUpdate(ctx, "example")
				Expect(err).Should(Succeed())
				Expect(update.Height).Should(Equal(int64(72)))
				Expect(node.txCallCount()).Should(Equal(3))
			})
		})

		When("the chain of transactions is longer than the walk depth", func() {
			BeforeEach(func() {
				cfg.MaxWalkDepth = 2

				node.names["example"] = &NameInfo{Name: "example", Owner: Outpoint{Hash: "cc", Index: 0}}
				node.addTx("cc", 99, []string{"RENEW"}, Outpoint{Hash: "bb", Index: 0})
				node.addTx("bb", 95, []string{"TRANSFER"}, Outpoint{Hash: "aa", Index: 0})
				node.addTx("aa", 72, []string{ActionClaim})
			})

			It("should stop with an error", func() {
				_, err := sut.LatestUpdate(ctx, "example")
				Expect(err).Should(MatchError(ErrWalkDepthExceeded))
				Expect(node.txCallCount()).Should(Equal(2))
			})
		})

		When("a referenced transaction is missing", func() {
			BeforeEach(func() {
				node.names["example"] = &NameInfo{Name: "example", Owner: Outpoint{Hash: "cc", Index: 0}}
				node.addTx("cc", 99, []string{"RENEW"}, Outpoint{Hash: "gone", Index: 0})
			})

			It("should return a ledger error", func() {
				_, err := sut.LatestUpdate(ctx, "example")

				var ledgerErr *LedgerError
				Expect(errors.As(err, &ledgerErr)).Should(BeTrue())
				Expect(ledgerErr.Name).Should(Equal("example"))
				Expect(errors.Is(err, errNotFound)).Should(BeTrue())
			})
		})

		When("the output index is out of range", func() {
			BeforeEach(func() {
				node.names["example"] = &NameInfo{Name: "example", Owner: Outpoint{Hash: "aa", Index: 3}}
				node.addTx("aa", 90, []string{ActionUpdate})
			})

			It("should return a ledger error", func() {
				_, err := sut.LatestUpdate(ctx, "example")
				Expect(err).Should(MatchError(ContainSubstring("has no output 3")))
			})
		})

		When("the update is not confirmed", func() {
			BeforeEach(func() {
				node.names["example"] = &NameInfo{Name: "example", Owner: Outpoint{Hash: "aa", Index: 0}}
				node.addTx("aa", -1, []string{ActionUpdate})
			})

			It("should return a ledger error", func() {
				_, err := sut.LatestUpdate(ctx, "example")
				Expect(err).Should(MatchError(ContainSubstring("not confirmed")))
			})
		})

		When("the name is unknown", func() {
			It("should return a ledger error", func() {
				_, err := sut.LatestUpdate(ctx, "unknown")
				Expect(err).Should(MatchError(ErrUnknownName))
			})
		})

		When("the name has no resource", func() {
			BeforeEach(func() {
				node.names["bare"] = &NameInfo{Name: "bare", Owner: Outpoint{Hash: "aa", Index: 0}}
				node.addTx("aa", 90, []string{ActionRegister})
			})

			It("should return an empty resource", func() {
				update, err := sut.LatestUpdate(ctx, "bare")
				Expect(err).Should(Succeed())
				Expect(update.Resource).ShouldNot(BeNil())
				Expect(update.Resource.HasDS()).Should(BeFalse())
			})
		})
	})
})

var _ = Describe("Client", func() {
	It("should report rpc errors", func() {
		node := newFakeNode()
		srv := node.start()

		client := NewClient(config.Ledger{URL: srv.URL + "/", Timeout: config.Duration(time.Second)})

		var result interface{}
		err := client.rpc(context.Background(), "unknownmethod", []interface{}{"x"}, &result)
		Expect(err).Should(MatchError(ContainSubstring("Method not found.")))
	})
})

var _ = Describe("Client response limit", func() {
	It("should reject oversized responses", func() {
		srv := helpertest.NewTestHTTPServer(`{"chain":{"height":1},"pad":"` + strings.Repeat("x", maxResponseSize) + `"}`)

		client := NewClient(config.Ledger{URL: srv.URL, Timeout: config.Duration(time.Second)})

		_, err := client.Height(context.Background())
		Expect(err).Should(MatchError(ContainSubstring("over limit")))
	})
})

package ledger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"

	"github.com/htools/sitecheck/model"
)

// fakeNode mimics the HTTP API of an hsd full node
type fakeNode struct {
	mu sync.Mutex

	apiKey    string
	height    int64
	names     map[string]*NameInfo
	resources map[string]*model.Resource
	txs       map[string]*Transaction
	txCalls   int
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		names:     map[string]*NameInfo{},
		resources: map[string]*model.Resource{},
		txs:       map[string]*Transaction{},
	}
}

func (n *fakeNode) start() *httptest.Server {
	srv := httptest.NewServer(n)
	DeferCleanup(srv.Close)

	return srv
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.apiKey != "" {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "x" || pass != n.apiKey {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		writeJSON(w, map[string]interface{}{"chain": map[string]interface{}{"height": n.height}})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/tx/"):
		n.txCalls++

		tx, ok := n.txs[strings.TrimPrefix(r.URL.Path, "/tx/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		writeJSON(w, tx)

	case r.Method == http.MethodPost && r.URL.Path == "/":
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		name, _ := req.Params[0].(string)

		switch req.Method {
		case "getnameinfo":
			writeJSON(w, map[string]interface{}{"result": map[string]interface{}{"info": n.names[name]}})
		case "getnameresource":
			writeJSON(w, map[string]interface{}{"result": n.resources[name]})
		default:
			writeJSON(w, map[string]interface{}{
				"result": nil,
				"error":  map[string]interface{}{"code": -32601, "message": "Method not found."},
			})
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (n *fakeNode) addTx(hash string, height int64, actions []string, prevouts ...Outpoint) {
	tx := &Transaction{Hash: hash, Height: height}

	for _, a := range actions {
		tx.Outputs = append(tx.Outputs, Output{Covenant: Covenant{Action: a}})
	}

	for _, p := range prevouts {
		tx.Inputs = append(tx.Inputs, Input{Prevout: p})
	}

	n.txs[hash] = tx
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (n *fakeNode) txCallCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.txCalls
}

package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/serolight/walletdash/internal/domain"
)

func successEnvelope(biz string, page string) string {
	env := `{"base":{"code":"SUCCESS","desc":"success"}`
	if biz != "" {
		env += `,"biz":` + biz
	}
	if page != "" {
		env += `,"page":` + page
	}
	return env + `}`
}

func TestCallSendsSignedEnvelope(t *testing.T) {
	var captured struct {
		Base struct {
			Timestamp int64  `json:"timestamp"`
			Sign      string `json:"sign"`
		} `json:"base"`
		Biz  map[string]string `json:"biz"`
		Page map[string]int    `json:"page"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account/detail", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(successEnvelope(`{"PK":"pk1","PkrBase58":["addr1"],"Balance":{}}`, "")))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	_, err := client.AccountDetail(context.Background(), "pk1")
	require.NoError(t, err)

	require.Greater(t, captured.Base.Timestamp, int64(0))
	require.Len(t, captured.Base.Sign, 64)
	require.Equal(t, "pk1", captured.Biz["PK"])
}

func TestAccountListPreservesCurrencyOrder(t *testing.T) {
	biz := `[{"PK":"pk1","PkrBase58":["old","latest"],` +
		`"Balance":{"SERO":500000000000000000,"TKN":"1000000000000000000"}}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(successEnvelope(biz, "")))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	accounts, err := client.AccountList(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	acc := accounts[0]
	require.Equal(t, "pk1", acc.PK)
	require.Equal(t, "latest", acc.ReceiveAddress())
	require.Equal(t, []string{"SERO", "TKN"}, acc.Currencies)
	require.Equal(t, "0.500000", acc.BalanceOf("SERO").ToDisplay().DisplayString())
	require.Equal(t, "1.000000", acc.BalanceOf("TKN").ToDisplay().DisplayString())
	require.Equal(t, "0.000000", acc.BalanceOf("MISSING").ToDisplay().DisplayString())
}

func TestAccountListEmptyBiz(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":{"code":"SUCCESS","desc":"success"}}`))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	accounts, err := client.AccountList(context.Background())
	require.NoError(t, err)
	require.Empty(t, accounts)
}

func TestBusinessErrorCarriesDescVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":{"code":"FAIL","desc":"bad password"}}`))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	_, err := client.CreateAccount(context.Background(), "pw")
	require.Error(t, err)

	be, ok := AsBusiness(err)
	require.True(t, ok)
	require.Equal(t, "FAIL", be.Code)
	require.Equal(t, "bad password", be.Desc)
	require.False(t, IsTransport(err))
}

func TestCreateAccountReturnsAddressAndMnemonic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Biz map[string]string `json:"biz"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "pw", req.Biz["passphrase"])
		w.Write([]byte(successEnvelope(`{"address":"addr1","mnemonic":"word1 word2"}`, "")))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	result, err := client.CreateAccount(context.Background(), "pw")
	require.NoError(t, err)
	require.Equal(t, "addr1", result.Address)
	require.Equal(t, "word1 word2", result.Mnemonic)
}

func TestImportMnemonic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account/import/mnemonic", r.URL.Path)
		w.Write([]byte(successEnvelope(`{"address":"addr9"}`, "")))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	address, err := client.ImportMnemonic(context.Background(), "word1 word2", "pw")
	require.NoError(t, err)
	require.Equal(t, "addr9", address)
}

func TestTransportErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	_, err := client.AccountList(context.Background())
	require.Error(t, err)
	require.True(t, IsTransport(err))

	_, ok := AsBusiness(err)
	require.False(t, ok)
}

func TestTransportErrorOnMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":`))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	_, err := client.AccountList(context.Background())
	require.Error(t, err)
	require.True(t, IsTransport(err))
}

func TestTxListParsesRecordsAndPage(t *testing.T) {
	biz := `[{"TxHash":"0xabc","Num":42,"Pkr":"pkr1",` +
		`"Asset":{"Tkn":{"Currency":"SERO","Value":1000000000000000000}}},` +
		`{"TxHash":"0xdef","Num":0,"Pkr":"pkr2",` +
		`"Asset":{"Tkn":{"Currency":"SERO","Value":250000000000000000}}}]`
	page := `{"page_no":2,"page_size":10,"count":2}`

	var sentPage map[string]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Page map[string]int `json:"page"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sentPage = req.Page
		w.Write([]byte(successEnvelope(biz, page)))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	txs, reported, err := client.TxList(context.Background(), "pk1", domain.PageInfo{PageNo: 2, PageSize: 10})
	require.NoError(t, err)

	require.Equal(t, 2, sentPage["page_no"])
	require.Equal(t, 10, sentPage["page_size"])

	require.Len(t, txs, 2)
	require.Equal(t, "0xabc", txs[0].Hash)
	require.Equal(t, uint64(42), txs[0].BlockNumber)
	require.False(t, txs[0].Pending())
	require.True(t, txs[1].Pending())
	require.Equal(t, "1.000000", txs[0].Value.ToDisplay().DisplayString())

	require.Equal(t, domain.PageInfo{PageNo: 2, PageSize: 10, Count: 2}, reported)
}

func TestTxListDefaultsMissingPageToRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":{"code":"SUCCESS","desc":"success"}}`))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	txs, reported, err := client.TxList(context.Background(), "pk1", domain.PageInfo{PageNo: 3, PageSize: 10})
	require.NoError(t, err)
	require.Empty(t, txs)
	require.Equal(t, 3, reported.PageNo)
	require.Equal(t, 10, reported.PageSize)
	require.Equal(t, 0, reported.Count)
}

func TestTransferSendsBaseUnitStrings(t *testing.T) {
	var sent domain.TransferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Biz domain.TransferRequest `json:"biz"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sent = req.Biz
		w.Write([]byte(successEnvelope(`"0xhash"`, "")))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	hash, err := client.Transfer(context.Background(), domain.TransferRequest{
		From:     "pk1",
		To:       "pkr9",
		Currency: "SERO",
		Amount:   "1000000000000000000",
		GasPrice: "1000000000",
	})
	require.NoError(t, err)
	require.Equal(t, "0xhash", hash)
	require.Equal(t, "1000000000000000000", sent.Amount)
	require.Equal(t, "1000000000", sent.GasPrice)
}

func TestKeystorePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(successEnvelope(`"/home/user/.sero/keystore"`, "")))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	path, err := client.KeystorePath(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/home/user/.sero/keystore", path)
}

func TestImportKeystoreSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "secret", r.FormValue("passphrase"))

		file, header, err := r.FormFile("uploadFile")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "keystore.json", header.Filename)

		w.Write([]byte("SUCCESS"))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	err := client.ImportKeystore(context.Background(), "secret", "keystore.json", strings.NewReader(`{"address":"x"}`))
	require.NoError(t, err)
}

func TestImportKeystoreFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("INVALID_FILE_TYPE"))
	}))
	defer srv.Close()

	client := NewWalletClient(srv.URL, time.Second)
	err := client.ImportKeystore(context.Background(), "wrong", "keystore.json", strings.NewReader("{}"))
	require.Error(t, err)

	be, ok := AsBusiness(err)
	require.True(t, ok)
	require.Equal(t, "INVALID_FILE_TYPE", be.Code)
	require.NotEmpty(t, be.Desc)

	// the same client and fresh input can go again after a failure
	err = client.ImportKeystore(context.Background(), "wrong again", "keystore.json", strings.NewReader("{}"))
	require.Error(t, err)
}

package clients

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/serolight/walletdash/internal/domain"
	"github.com/serolight/walletdash/pkg/numeric"
)

const (
	codeSuccess    = "SUCCESS"
	defaultTimeout = 15 * time.Second
)

// WalletClient talks to the local wallet daemon. Every request is wrapped in
// the daemon's fixed envelope and the call blocks the caller until a response
// or transport failure arrives.
type WalletClient struct {
	host       string
	httpClient *http.Client
}

// NewWalletClient creates a client for the daemon at host (scheme://addr,
// no trailing slash). A zero timeout falls back to a conservative default.
func NewWalletClient(host string, timeout time.Duration) *WalletClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &WalletClient{
		host: host,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type baseRequest struct {
	Timestamp int64  `json:"timestamp"`
	Sign      string `json:"sign"`
}

type requestEnvelope struct {
	Base baseRequest `json:"base"`
	Biz  any         `json:"biz"`
	Page any         `json:"page"`
}

type baseResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

type responseEnvelope struct {
	Base baseResponse    `json:"base"`
	Biz  json.RawMessage `json:"biz,omitempty"`
	Page domain.PageInfo `json:"page,omitempty"`
}

type pageRequest struct {
	PageNo   int `json:"page_no"`
	PageSize int `json:"page_size"`
}

func signPayload(method string, timestamp int64) string {
	sum := sha3.Sum256([]byte(method + ":" + strconv.FormatInt(timestamp, 10)))
	return hex.EncodeToString(sum[:])
}

// call posts one enveloped request. A non-SUCCESS code comes back as a
// *BusinessError whose Desc is meant for the user; anything preventing a
// decoded envelope comes back as a *TransportError.
func (c *WalletClient) call(ctx context.Context, method string, biz, page any) (*responseEnvelope, error) {
	if page == nil {
		page = struct{}{}
	}
	ts := time.Now().Unix()
	env := requestEnvelope{
		Base: baseRequest{Timestamp: ts, Sign: signPayload(method, ts)},
		Biz:  biz,
		Page: page,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s request", method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/"+method, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: method, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: method, Err: fmt.Errorf("status %d: %s", resp.StatusCode, raw)}
	}

	var decoded responseEnvelope
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &TransportError{Op: method, Err: err}
	}

	if decoded.Base.Code != codeSuccess {
		return nil, &BusinessError{Code: decoded.Base.Code, Desc: decoded.Base.Desc}
	}
	return &decoded, nil
}

// AccountRecord is the daemon's wire shape for one account. Balance stays raw
// so currency order can be recovered from the response object.
type AccountRecord struct {
	PK        string          `json:"PK"`
	MainPKr   string          `json:"MainPKr"`
	Balance   json.RawMessage `json:"Balance"`
	UtxoNums  map[string]uint64
	PkrBase58 []string `json:"PkrBase58"`
}

// ToAccount converts the wire record into a domain snapshot.
func (r AccountRecord) ToAccount() (domain.Account, error) {
	order, amounts, err := parseBalances(r.Balance)
	if err != nil {
		return domain.Account{}, errors.Wrapf(err, "account %s balances", r.PK)
	}
	return domain.Account{
		PK:         r.PK,
		PkrBase58:  r.PkrBase58,
		Currencies: order,
		Balances:   amounts,
	}, nil
}

// parseBalances walks the Balance object token by token so the daemon's
// currency order survives; encoding/json maps would lose it.
func parseBalances(raw json.RawMessage) ([]string, map[string]numeric.Value, error) {
	amounts := make(map[string]numeric.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, amounts, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("balance is not an object")
	}

	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		currency, ok := keyTok.(string)
		if !ok {
			return nil, nil, errors.New("balance key is not a string")
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		var literal string
		switch v := valTok.(type) {
		case json.Number:
			literal = v.String()
		case string:
			literal = v
		default:
			return nil, nil, errors.Errorf("balance value for %s is not numeric", currency)
		}

		amount, err := numeric.FromBaseString(literal)
		if err != nil {
			return nil, nil, err
		}
		order = append(order, currency)
		amounts[currency] = amount
	}
	return order, amounts, nil
}

// NewAccountResult is returned by account/create: the new account's address
// and its mnemonic, which the user must write down.
type NewAccountResult struct {
	Address  string `json:"address"`
	Mnemonic string `json:"mnemonic"`
}

// CreateAccount asks the daemon to derive a new account protected by passphrase.
func (c *WalletClient) CreateAccount(ctx context.Context, passphrase string) (NewAccountResult, error) {
	biz := map[string]string{"passphrase": passphrase}
	resp, err := c.call(ctx, "account/create", biz, nil)
	if err != nil {
		return NewAccountResult{}, err
	}
	var result NewAccountResult
	if err := json.Unmarshal(resp.Biz, &result); err != nil {
		return NewAccountResult{}, &TransportError{Op: "account/create", Err: err}
	}
	return result, nil
}

// AccountList fetches all accounts. A daemon with no accounts yields an empty
// slice, not an error.
func (c *WalletClient) AccountList(ctx context.Context) ([]domain.Account, error) {
	resp, err := c.call(ctx, "account/list", struct{}{}, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Biz) == 0 || bytes.Equal(resp.Biz, []byte("null")) {
		return []domain.Account{}, nil
	}

	var records []AccountRecord
	if err := json.Unmarshal(resp.Biz, &records); err != nil {
		return nil, &TransportError{Op: "account/list", Err: err}
	}

	accounts := make([]domain.Account, 0, len(records))
	for _, rec := range records {
		acc, err := rec.ToAccount()
		if err != nil {
			return nil, &TransportError{Op: "account/list", Err: err}
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// AccountDetail fetches one account by its public key.
func (c *WalletClient) AccountDetail(ctx context.Context, pk string) (domain.Account, error) {
	biz := map[string]string{"PK": pk}
	resp, err := c.call(ctx, "account/detail", biz, nil)
	if err != nil {
		return domain.Account{}, err
	}
	var record AccountRecord
	if err := json.Unmarshal(resp.Biz, &record); err != nil {
		return domain.Account{}, &TransportError{Op: "account/detail", Err: err}
	}
	acc, err := record.ToAccount()
	if err != nil {
		return domain.Account{}, &TransportError{Op: "account/detail", Err: err}
	}
	return acc, nil
}

// ImportMnemonic restores an account from its mnemonic phrase and returns the
// imported address.
func (c *WalletClient) ImportMnemonic(ctx context.Context, mnemonic, passphrase string) (string, error) {
	biz := map[string]string{"mnemonic": mnemonic, "passphrase": passphrase}
	resp, err := c.call(ctx, "account/import/mnemonic", biz, nil)
	if err != nil {
		return "", err
	}
	var result struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(resp.Biz, &result); err != nil {
		return "", &TransportError{Op: "account/import/mnemonic", Err: err}
	}
	return result.Address, nil
}

type txRecord struct {
	TxHash string      `json:"TxHash"`
	Num    uint64      `json:"Num"`
	Pkr    string      `json:"Pkr"`
	Asset  assetRecord `json:"Asset"`
}

type assetRecord struct {
	Tkn tknRecord `json:"Tkn"`
}

type tknRecord struct {
	Currency string      `json:"Currency"`
	Value    json.Number `json:"Value"`
}

// TxList fetches one page of transaction history for the account. The
// returned PageInfo.Count is the number of items in this response; the daemon
// reports no grand total.
func (c *WalletClient) TxList(ctx context.Context, pk string, page domain.PageInfo) ([]domain.Transaction, domain.PageInfo, error) {
	biz := map[string]string{"PK": pk}
	resp, err := c.call(ctx, "tx/list", biz, pageRequest{PageNo: page.PageNo, PageSize: page.PageSize})
	if err != nil {
		return nil, domain.PageInfo{}, err
	}

	var records []txRecord
	if len(resp.Biz) > 0 && !bytes.Equal(resp.Biz, []byte("null")) {
		if err := json.Unmarshal(resp.Biz, &records); err != nil {
			return nil, domain.PageInfo{}, &TransportError{Op: "tx/list", Err: err}
		}
	}

	txs := make([]domain.Transaction, 0, len(records))
	for _, rec := range records {
		value, err := numeric.FromBaseString(rec.Asset.Tkn.Value.String())
		if err != nil {
			return nil, domain.PageInfo{}, &TransportError{Op: "tx/list", Err: err}
		}
		txs = append(txs, domain.Transaction{
			Hash:        rec.TxHash,
			BlockNumber: rec.Num,
			Address:     rec.Pkr,
			Currency:    rec.Asset.Tkn.Currency,
			Value:       value,
		})
	}

	reported := resp.Page
	if reported.PageNo == 0 {
		reported.PageNo = page.PageNo
	}
	if reported.PageSize == 0 {
		reported.PageSize = page.PageSize
	}
	return txs, reported, nil
}

// Transfer submits a signed-by-daemon transfer and returns the transaction hash.
func (c *WalletClient) Transfer(ctx context.Context, req domain.TransferRequest) (string, error) {
	resp, err := c.call(ctx, "tx/transfer", req, nil)
	if err != nil {
		return "", err
	}
	var hash string
	if len(resp.Biz) > 0 && !bytes.Equal(resp.Biz, []byte("null")) {
		if err := json.Unmarshal(resp.Biz, &hash); err != nil {
			return "", &TransportError{Op: "tx/transfer", Err: err}
		}
	}
	return hash, nil
}

// KeystorePath returns the daemon's keystore directory, shown to the user for
// manual backup.
func (c *WalletClient) KeystorePath(ctx context.Context) (string, error) {
	resp, err := c.call(ctx, "path/keystore", struct{}{}, nil)
	if err != nil {
		return "", err
	}
	var path string
	if err := json.Unmarshal(resp.Biz, &path); err != nil {
		return "", &TransportError{Op: "path/keystore", Err: err}
	}
	return path, nil
}

// keystoreDescs maps the upload endpoint's plain-text codes to user-facing
// reasons. The endpoint predates the JSON envelope and answers with a bare
// status string.
var keystoreDescs = map[string]string{
	"INVALID_FILE_TYPE": "passphrase is incorrect or the file is not a keystore",
	"INVALID_FILE":      "the uploaded file could not be read",
	"FILE_TOO_BIG":      "keystore file exceeds the upload limit",
}

// ImportKeystore uploads a keystore file as a multipart form. A failed import
// returns an error and changes nothing, so the caller can retry with new input.
func (c *WalletClient) ImportKeystore(ctx context.Context, passphrase, filename string, file io.Reader) error {
	const op = "account/import/keystore"

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("passphrase", passphrase); err != nil {
		return errors.Wrap(err, "write passphrase field")
	}
	part, err := form.CreateFormFile("uploadFile", filename)
	if err != nil {
		return errors.Wrap(err, "create file part")
	}
	if _, err := io.Copy(part, file); err != nil {
		return errors.Wrap(err, "copy keystore file")
	}
	if err := form.Close(); err != nil {
		return errors.Wrap(err, "finalize form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/"+op, &body)
	if err != nil {
		return errors.Wrap(err, "build upload request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &TransportError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, raw)}
	}

	code := string(bytes.TrimSpace(raw))
	if code == codeSuccess {
		return nil
	}
	desc, ok := keystoreDescs[code]
	if !ok {
		desc = "keystore import failed"
	}
	return &BusinessError{Code: code, Desc: desc}
}

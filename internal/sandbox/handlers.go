package sandbox

import (
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ochronus/gopastebin/internal/config"
	"github.com/ochronus/gopastebin/pastebin"
	"github.com/sirupsen/logrus"
)

// Texts the service answers with.
const (
	msgInvalidDevKey     = "Bad API request, invalid api_dev_key"
	msgInvalidLogin      = "Bad API request, invalid login"
	msgInvalidUserKey    = "Bad API request, invalid api_user_key"
	msgInvalidOption     = "Bad API request, invalid api_option"
	msgEmptyCode         = "Bad API request, api_paste_code was empty"
	msgInvalidPrivate    = "Bad API request, invalid api_paste_private"
	msgInvalidExpireDate = "Bad API request, invalid api_expire_date"
	msgInvalidLimit      = "Bad API request, invalid api_results_limit"
	msgNoRemovePerm      = "Bad API request, invalid permission to remove paste"
	msgNoViewPerm        = "Bad API request, invalid permission to view this paste or invalid api_paste_key"
	msgNoPastes          = "No pastes found."
	msgPasteRemoved      = "Paste Removed"
	msgNotFound          = "Not Found"
)

const (
	outcomeOK         = "ok"
	outcomeBadRequest = "bad_request"
)

// Handler contains the HTTP handlers emulating the paste service API.
type Handler struct {
	config   *config.SandboxConfig
	store    *Store
	accounts *Accounts
	metrics  *Metrics
	logger   *logrus.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg *config.SandboxConfig, store *Store, accounts *Accounts, metrics *Metrics, logger *logrus.Logger) *Handler {
	return &Handler{
		config:   cfg,
		store:    store,
		accounts: accounts,
		metrics:  metrics,
		logger:   logger,
	}
}

// Login handles the login endpoint.
func (h *Handler) Login(c *gin.Context) {
	const option = "login"

	if !h.accounts.ValidDevKey(c.PostForm("api_dev_key")) {
		h.reject(c, option, msgInvalidDevKey)
		return
	}

	username := c.PostForm("api_user_name")
	userKey, ok := h.accounts.Login(username, c.PostForm("api_user_password"))
	if !ok {
		h.reject(c, option, msgInvalidLogin)
		return
	}

	h.metrics.Logins.Inc()
	h.logger.Infof("[%s]: logged in", username)
	h.reply(c, option, userKey)
}

// Post handles the post endpoint: paste, list and delete.
func (h *Handler) Post(c *gin.Context) {
	option := optionLabel(c.PostForm("api_option"))

	if !h.accounts.ValidDevKey(c.PostForm("api_dev_key")) {
		h.reject(c, option, msgInvalidDevKey)
		return
	}

	switch option {
	case pastebin.OptionPaste:
		h.handlePaste(c)
	case pastebin.OptionList:
		h.handleList(c)
	case pastebin.OptionDelete:
		h.handleDelete(c)
	default:
		h.logger.Warnf("Unknown api_option: %q", c.PostForm("api_option"))
		h.reject(c, option, msgInvalidOption)
	}
}

// Raw handles the raw endpoint, which serves the caller's own pastes.
func (h *Handler) Raw(c *gin.Context) {
	option := optionLabel(c.PostForm("api_option"))

	if !h.accounts.ValidDevKey(c.PostForm("api_dev_key")) {
		h.reject(c, option, msgInvalidDevKey)
		return
	}
	if option != pastebin.OptionShowPaste {
		h.reject(c, option, msgInvalidOption)
		return
	}

	username, ok := h.accounts.User(c.PostForm("api_user_key"))
	if !ok {
		h.reject(c, option, msgInvalidUserKey)
		return
	}

	record, ok := h.store.Get(c.PostForm("api_paste_key"), username)
	if !ok {
		h.reject(c, option, msgNoViewPerm)
		return
	}

	h.metrics.PasteRetrieved.Inc()
	h.reply(c, option, record.Content)
}

// PublicRaw serves the content of a public or unlisted paste.
func (h *Handler) PublicRaw(c *gin.Context) {
	const option = "public_raw"

	record, ok := h.store.Get(c.Param("key"), "")
	if !ok {
		h.metrics.Requests.WithLabelValues(option, "not_found").Inc()
		c.String(http.StatusNotFound, msgNotFound)
		return
	}

	h.metrics.PasteRetrieved.Inc()
	h.reply(c, option, record.Content)
}

// handlePaste creates a paste, owned by the user key's account if one is
// given.
func (h *Handler) handlePaste(c *gin.Context) {
	option := pastebin.OptionPaste

	code := c.PostForm("api_paste_code")
	if code == "" {
		h.reject(c, option, msgEmptyCode)
		return
	}

	var owner string
	if userKey := c.PostForm("api_user_key"); userKey != "" {
		username, ok := h.accounts.User(userKey)
		if !ok {
			h.reject(c, option, msgInvalidUserKey)
			return
		}
		owner = username
	}

	visibility := pastebin.Public
	if raw, ok := c.GetPostForm("api_paste_private"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || !pastebin.Visibility(n).Valid() {
			h.reject(c, option, msgInvalidPrivate)
			return
		}
		visibility = pastebin.Visibility(n)
	}
	if visibility == pastebin.Private && owner == "" {
		h.reject(c, option, msgInvalidUserKey)
		return
	}

	expireDate := c.DefaultPostForm("api_expire_date", c.DefaultPostForm("api_paste_expire_date", "N"))
	if !ValidExpireDate(expireDate) {
		h.reject(c, option, msgInvalidExpireDate)
		return
	}

	paste, err := h.store.Add(NewPaste{
		Owner:      owner,
		Content:    code,
		Title:      c.PostForm("api_paste_name"),
		Format:     c.PostForm("api_paste_format"),
		ExpireDate: expireDate,
		Visibility: visibility,
		BaseURL:    h.baseURL(c),
	})
	if err != nil {
		h.logger.Errorf("paste error: %v", err)
		h.metrics.Requests.WithLabelValues(option, "error").Inc()
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	h.metrics.PasteCreated.Inc()
	h.logger.Infof("[%s: %s]: paste created (%s)", paste.Key, paste.Title, visibility)
	h.reply(c, option, paste.URL)
}

func (h *Handler) handleList(c *gin.Context) {
	option := pastebin.OptionList

	username, ok := h.accounts.User(c.PostForm("api_user_key"))
	if !ok {
		h.reject(c, option, msgInvalidUserKey)
		return
	}

	limit := pastebin.DefaultResultsLimit
	if raw, ok := c.GetPostForm("api_results_limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > pastebin.MaxResultsLimit {
			h.reject(c, option, msgInvalidLimit)
			return
		}
		limit = n
	}

	pastes := h.store.List(username, limit)
	if len(pastes) == 0 {
		h.reply(c, option, msgNoPastes)
		return
	}
	h.reply(c, option, RenderList(pastes))
}

func (h *Handler) handleDelete(c *gin.Context) {
	option := pastebin.OptionDelete

	username, ok := h.accounts.User(c.PostForm("api_user_key"))
	if !ok {
		h.reject(c, option, msgInvalidUserKey)
		return
	}

	key := c.PostForm("api_paste_key")
	if !h.store.Delete(username, key) {
		h.reject(c, option, msgNoRemovePerm)
		return
	}

	h.metrics.PasteDeleted.Inc()
	h.logger.Infof("[%s]: paste removed", key)
	h.reply(c, option, msgPasteRemoved)
}

// baseURL is the configured public URL, or else the address the request was
// sent to.
func (h *Handler) baseURL(c *gin.Context) string {
	if h.config.PublicURL != "" {
		return h.config.PublicURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// optionLabel keeps metric labels to the known options.
func optionLabel(option string) string {
	switch option {
	case pastebin.OptionPaste, pastebin.OptionList, pastebin.OptionDelete, pastebin.OptionShowPaste:
		return option
	}
	return "unknown"
}

func (h *Handler) reply(c *gin.Context, option, body string) {
	h.metrics.Requests.WithLabelValues(option, outcomeOK).Inc()
	c.String(http.StatusOK, body)
}

// reject answers a refused request. The service reports these with a 200
// status and the reason as body.
func (h *Handler) reject(c *gin.Context, option, message string) {
	h.logger.Debugf("%s rejected: %s", option, message)
	h.metrics.Requests.WithLabelValues(option, outcomeBadRequest).Inc()
	c.String(http.StatusOK, message)
}

// RenderList renders pastes in the list response format.
func RenderList(pastes []pastebin.Paste) string {
	var b strings.Builder
	for _, p := range pastes {
		b.WriteString("<paste>\n")
		writeField(&b, "key", p.Key)
		writeField(&b, "date", strconv.FormatInt(p.Date, 10))
		writeField(&b, "title", p.Title)
		writeField(&b, "size", strconv.FormatInt(p.Size, 10))
		writeField(&b, "expire_date", p.ExpireDate)
		writeField(&b, "private", strconv.Itoa(int(p.Visibility)))
		writeField(&b, "format_long", p.FormatLong)
		writeField(&b, "format_short", p.FormatShort)
		writeField(&b, "url", p.URL)
		writeField(&b, "hits", strconv.FormatInt(p.Hits, 10))
		b.WriteString("</paste>\n")
	}
	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	b.WriteString("<paste_" + name + ">")
	b.WriteString(html.EscapeString(value))
	b.WriteString("</paste_" + name + ">\n")
}

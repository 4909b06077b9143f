package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"github.com/senyabanana/rentr-service/internal/models"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	SendError(w, models.NewErrorResponse(statusCode, message))
}

// SendError отправляет ошибку вместе с её категорией.
func SendError(w http.ResponseWriter, errorResponse *models.ErrorResponse) {
	SendJSON(w, errorResponse.StatusCode, errorResponse)
}

// SendJSON кодирует v в тело ответа.
func SendJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err)
	}
}

// ParseLimitOffset обрабатывает limit и offset. Пустой limit означает "без ограничения".
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 100 {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [1:100]")
		}
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter, must be a non-negative integer")
		}
	}

	return limit, offset, nil
}

// ParseJobFilter собирает фильтр списка работ из query-параметров type и status.
// Параметры можно повторять или перечислять через запятую.
func ParseJobFilter(r *http.Request) (models.JobFilter, error) {
	var filter models.JobFilter
	query := r.URL.Query()

	for _, raw := range splitValues(query["type"]) {
		jobType := models.ParseJobType(raw)
		if !strings.EqualFold(string(jobType), raw) {
			return filter, fmt.Errorf("unsupported job type: %s", raw)
		}
		filter.Types = append(filter.Types, jobType)
	}

	for _, raw := range splitValues(query["status"]) {
		status, ok := models.ParseJobStatus(raw)
		if !ok {
			return filter, fmt.Errorf("unsupported job status: %s", raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	limit, offset, err := ParseLimitOffset(query.Get("limit"), query.Get("offset"))
	if err != nil {
		return filter, err
	}
	filter.Limit = limit
	filter.Offset = offset
	return filter, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Contains - функция для проверки вхождения значения в список
func Contains[T comparable](items []T, v T) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

// ClientIP возвращает адрес клиента без порта.
// X-Forwarded-For учитывается только если запрос пришёл от доверенного прокси:
// цепочка разбирается справа налево до первого недоверенного адреса.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := remoteHost(r.RemoteAddr)
	if len(trusted) == 0 || !isTrusted(peer, trusted) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !isTrusted(hop, trusted) {
			return hop
		}
		peer = hop
	}
	return peer
}

// ParseTrustedProxies разбирает список доверенных прокси: адреса или подсети в нотации CIDR.
func ParseTrustedProxies(items []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			prefix, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", item, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", item, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

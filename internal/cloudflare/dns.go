package cloudflare

import (
	"context"
	"fmt"
	"net"

	"github.com/cloudflare/cloudflare-go"
)

// DNSRecordType DNS记录类型
type DNSRecordType string

const (
	TypeA     DNSRecordType = "A"
	TypeAAAA  DNSRecordType = "AAAA"
	TypeCNAME DNSRecordType = "CNAME"
)

// DNSRecord DNS记录信息
type DNSRecord struct {
	ID      string
	Type    string
	Name    string
	Content string
	Proxied bool
	TTL     int
}

// GetDNSRecord 获取指定域名的DNS记录
func (c *Client) GetDNSRecord(ctx context.Context, domain string) (*DNSRecord, error) {
	zoneID, err := c.GetZoneID(domain)
	if err != nil {
		return nil, err
	}

	records, _, err := c.api.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.ListDNSRecordsParams{
		Name: domain,
	})
	if err != nil {
		return nil, fmt.Errorf("查询DNS记录失败: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("未找到域名的DNS记录: %s", domain)
	}

	record := records[0]
	proxied := false
	if record.Proxied != nil {
		proxied = *record.Proxied
	}
	return &DNSRecord{
		ID:      record.ID,
		Type:    record.Type,
		Name:    record.Name,
		Content: record.Content,
		Proxied: proxied,
		TTL:     record.TTL,
	}, nil
}

// GetCurrentTarget 获取当前DNS记录指向的地址
func (c *Client) GetCurrentTarget(ctx context.Context, domain string) (string, error) {
	record, err := c.GetDNSRecord(ctx, domain)
	if err != nil {
		return "", err
	}
	return record.Content, nil
}

// UpdateDNSRecord 将记录指向新地址，记录类型随地址变化
func (c *Client) UpdateDNSRecord(ctx context.Context, domain, newTarget string) error {
	currentRecord, err := c.GetDNSRecord(ctx, domain)
	if err != nil {
		return err
	}
	if currentRecord.Content == newTarget {
		return nil
	}

	zoneID, err := c.GetZoneID(domain)
	if err != nil {
		return err
	}

	params := cloudflare.UpdateDNSRecordParams{
		ID:      currentRecord.ID,
		Type:    string(RecordTypeFor(newTarget)),
		Name:    domain,
		Content: newTarget,
		Proxied: cloudflare.BoolPtr(currentRecord.Proxied),
		TTL:     currentRecord.TTL,
	}

	if _, err = c.api.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), params); err != nil {
		return fmt.Errorf("更新DNS记录失败: %w", err)
	}
	return nil
}

// RecordTypeFor 根据地址判断记录类型（IPv4 -> A, IPv6 -> AAAA, 域名 -> CNAME）
func RecordTypeFor(target string) DNSRecordType {
	ip := net.ParseIP(target)
	switch {
	case ip == nil:
		return TypeCNAME
	case ip.To4() != nil:
		return TypeA
	default:
		return TypeAAAA
	}
}

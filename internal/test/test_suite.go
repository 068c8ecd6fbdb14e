// Command-line smoke test that drives the full note lifecycle (register,
// create, moderate, browse) against a running API plus a concurrent
// note-creation run, and produces a CSV report.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"wanderlog/config"
	"wanderlog/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const baseURL = "http://127.0.0.1:8080/api/v1"

var client = &http.Client{Timeout: 10 * time.Second}

type account struct {
	Username string
	Password string
	Mobile   string
	Access   string
}

// createResult 汇总并发建贴的结果，折叠进 CSV 报告。
type createResult struct {
	Worker    int
	NoteID    uint64
	Status    int
	Err       string
	Timestamp time.Time
}

// ======================= 基本 HTTP helper =======================

func doJSON(method, url string, body any, token string) (int, map[string]any, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest(method, url, bytes.NewBuffer(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Device", "smoke")
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	var parsed map[string]any
	_ = json.Unmarshal(data, &parsed)
	return resp.StatusCode, parsed, nil
}

// registerAndLogin ensures the account exists and returns a logged-in token.
func registerAndLogin(a *account) error {
	status, _, err := doJSON("POST", baseURL+"/users/register", map[string]string{
		"username": a.Username,
		"password": a.Password,
		"nickname": a.Username + "-nick",
		"mobile":   a.Mobile,
	}, "")
	if err != nil {
		return err
	}
	if status != 200 && status != 400 { // 400 表示已存在（可接受）
		return fmt.Errorf("register status %d", status)
	}
	status, body, err := doJSON("POST", baseURL+"/users/login", map[string]string{
		"username": a.Username,
		"password": a.Password,
	}, "")
	if err != nil {
		return err
	}
	if status != 200 {
		return fmt.Errorf("login status %d", status)
	}
	a.Access, _ = body["access_token"].(string)
	if a.Access == "" {
		return fmt.Errorf("login returned no access token")
	}
	return nil
}

// promoteRole flips the role column directly — the API deliberately has no
// endpoint for this, so the smoke tool reaches into the DB like an operator.
func promoteRole(db *gorm.DB, username string, role model.Role) error {
	return db.Model(&model.User{}).Where("username = ?", username).
		Update("role", role).Error
}

// relogin refreshes the token so the new role lands in the claims.
func relogin(a *account) error {
	status, body, err := doJSON("POST", baseURL+"/users/login", map[string]string{
		"username": a.Username,
		"password": a.Password,
	}, "")
	if err != nil || status != 200 {
		return fmt.Errorf("relogin status %d err %v", status, err)
	}
	a.Access, _ = body["access_token"].(string)
	return nil
}

func createNote(token, title, location string) (uint64, int, error) {
	status, body, err := doJSON("POST", baseURL+"/notes", map[string]any{
		"title":    title,
		"content":  "smoke content for " + title,
		"location": location,
		"media": []map[string]any{
			{"kind": "image", "url": "/uploads/smoke-1.jpg", "sort_order": 1},
			{"kind": "image", "url": "/uploads/smoke-0.jpg", "sort_order": 0},
		},
	}, token)
	if err != nil || status != 200 {
		return 0, status, err
	}
	id, _ := body["id"].(float64)
	return uint64(id), status, nil
}

// ======================= 生命周期连通性测试 =======================

// lifecycleSmokeTests exercises the create/moderate/delete end-to-end scenarios.
func lifecycleSmokeTests(db *gorm.DB) error {
	nano := time.Now().UnixNano()
	writer := &account{
		Username: fmt.Sprintf("smoke-w-%d", nano%1000000),
		Password: "SmokePwd123!",
		Mobile:   fmt.Sprintf("13%09d", nano%1000000000),
	}
	reviewer := &account{
		Username: fmt.Sprintf("smoke-r-%d", nano%1000000),
		Password: "SmokePwd123!",
		Mobile:   fmt.Sprintf("13%09d", (nano+1)%1000000000),
	}
	if err := registerAndLogin(writer); err != nil {
		return fmt.Errorf("writer setup: %w", err)
	}
	if err := registerAndLogin(reviewer); err != nil {
		return fmt.Errorf("reviewer setup: %w", err)
	}
	if err := promoteRole(db, reviewer.Username, model.RoleAuditor); err != nil {
		return fmt.Errorf("promote reviewer: %w", err)
	}
	if err := relogin(reviewer); err != nil {
		return err
	}

	// 新帖必须是 pending，匿名不可见
	noteID, status, err := createNote(writer.Access, "Lijiang", "Lijiang")
	if err != nil || status != 200 {
		return fmt.Errorf("create note: status=%d err=%v", status, err)
	}
	noteURL := fmt.Sprintf("%s/notes/%d", baseURL, noteID)
	if status, _, _ := doJSON("GET", noteURL, nil, ""); status != 403 {
		return fmt.Errorf("anonymous read of pending note: status=%d want 403", status)
	}

	// 无理由驳回必须失败且不改状态
	statusURL := fmt.Sprintf("%s/review/notes/%d/status", baseURL, noteID)
	if status, _, _ := doJSON("PUT", statusURL, map[string]string{"status": "rejected"}, reviewer.Access); status != 400 {
		return fmt.Errorf("reject without reason: status=%d want 400", status)
	}
	if _, body, _ := doJSON("GET", noteURL, nil, writer.Access); body["status"] != "pending" {
		return fmt.Errorf("note status changed by failed rejection: %v", body["status"])
	}

	// 过审后匿名可见、理由为空
	if status, body, _ := doJSON("PUT", statusURL, map[string]string{"status": "approved"}, reviewer.Access); status != 200 || body["status"] != "approved" {
		return fmt.Errorf("approve: status=%d body=%v", status, body["status"])
	}
	if status, body, _ := doJSON("GET", noteURL, nil, ""); status != 200 || body["reject_reason"] != nil {
		return fmt.Errorf("anonymous read after approve: status=%d reason=%v", status, body["reject_reason"])
	}

	// 审核员不能删除；提为管理员后可以
	deleteURL := fmt.Sprintf("%s/review/notes/%d", baseURL, noteID)
	if status, _, _ := doJSON("DELETE", deleteURL, nil, reviewer.Access); status != 403 {
		return fmt.Errorf("auditor delete: status=%d want 403", status)
	}
	if err := promoteRole(db, reviewer.Username, model.RoleAdmin); err != nil {
		return err
	}
	if err := relogin(reviewer); err != nil {
		return err
	}
	if status, _, _ := doJSON("DELETE", deleteURL, nil, reviewer.Access); status != 200 {
		return fmt.Errorf("admin delete: status=%d want 200", status)
	}
	// 删除后管理员按 id 仍可见，且带删除标记
	if status, body, _ := doJSON("GET", noteURL, nil, reviewer.Access); status != 200 || body["is_deleted"] != true {
		return fmt.Errorf("admin read of deleted note: status=%d is_deleted=%v", status, body["is_deleted"])
	}

	log.Println("lifecycle smoke tests passed: create/moderate/delete scenarios verified")
	return nil
}

// ======================= 并发建贴与报告生成 =======================

func concurrentCreateTest(workers, notesPerWorker int, outCSV string) error {
	nano := time.Now().UnixNano()
	writer := &account{
		Username: fmt.Sprintf("smoke-c-%d", nano%1000000),
		Password: "SmokePwd123!",
		Mobile:   fmt.Sprintf("13%09d", (nano+2)%1000000000),
	}
	if err := registerAndLogin(writer); err != nil {
		return err
	}

	results := make(chan createResult, workers*notesPerWorker)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < notesPerWorker; i++ {
				title := fmt.Sprintf("load-%d-%d", worker, i)
				id, status, err := createNote(writer.Access, title, "Dali")
				res := createResult{Worker: worker, NoteID: id, Status: status, Timestamp: time.Now()}
				if err != nil {
					res.Err = err.Error()
				}
				results <- res
			}
		}(w)
	}
	wg.Wait()
	close(results)

	csvFile, err := os.Create(outCSV)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	csvWriter := csv.NewWriter(csvFile)
	defer csvWriter.Flush()
	_ = csvWriter.Write([]string{"Worker", "NoteID", "Status", "Err", "Timestamp"})

	failures := 0
	for r := range results {
		if r.Status != 200 {
			failures++
		}
		_ = csvWriter.Write([]string{
			fmt.Sprintf("%d", r.Worker),
			fmt.Sprintf("%d", r.NoteID),
			fmt.Sprintf("%d", r.Status),
			r.Err,
			r.Timestamp.Format(time.RFC3339),
		})
	}
	if failures > 0 {
		return fmt.Errorf("%d concurrent creations failed, see %s", failures, outCSV)
	}
	return nil
}

// ======================= main =======================

func main() {
	config.InitConfig("../../")
	config.InitRedis()

	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	if err := lifecycleSmokeTests(db); err != nil {
		log.Fatalf("lifecycle smoke tests failed: %v", err)
	}

	start := time.Now()
	if err := concurrentCreateTest(5, 4, "note_create_report.csv"); err != nil {
		log.Fatalf("concurrent create test failed: %v", err)
	}
	log.Printf("concurrent create test finished in %s, CSV=note_create_report.csv\n", time.Since(start))
	fmt.Println("All note lifecycle tests completed successfully!")
}

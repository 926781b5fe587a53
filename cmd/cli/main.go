package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "user":
		handleUser(args)
	case "house":
		handleHouse(args)
	case "tenant":
		handleTenant(args)
	case "rental":
		handleRental(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: homerental auth <register|login|logout|who>")
		return
	}

	switch args[0] {
	case "register":
		registerUser(args[1:])
	case "login":
		loginUser(args[1:])
	case "logout":
		logoutUser()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
}

func handleUser(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: homerental user <list|get|delete|rentals>")
		return
	}

	switch args[0] {
	case "list":
		listResource("/users", "ID\tUSERNAME\tAGE", func(w *tabwriter.Writer, item map[string]interface{}) {
			fmt.Fprintf(w, "%v\t%v\t%v\n", item["id"], item["username"], item["age"])
		})
	case "get":
		getResource("/users", args[1:])
	case "delete":
		deleteResource("/users", args[1:])
	case "rentals":
		if len(args) < 2 {
			fmt.Println("Usage: homerental user rentals <user-id>")
			return
		}
		listResource("/users/"+args[1]+"/rentals", "ID\tSTART\tEND\tHOUSE", func(w *tabwriter.Writer, item map[string]interface{}) {
			fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", item["id"], item["startDate"], item["endDate"], item["houseId"])
		})
	default:
		fmt.Printf("unknown user command: %s\n", args[0])
	}
}

func handleHouse(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: homerental house <list|create|get|tenants>")
		return
	}

	switch args[0] {
	case "list":
		listResource("/houses", "ID\tADDRESS\tCITY\tROOMS", func(w *tabwriter.Writer, item map[string]interface{}) {
			fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", item["id"], item["address"], item["city"], item["numberOfRooms"])
		})
	case "create":
		createHouse(args[1:])
	case "get":
		getResource("/houses", args[1:])
	case "tenants":
		if len(args) < 2 {
			fmt.Println("Usage: homerental house tenants <house-id>")
			return
		}
		listResource("/houses/"+args[1]+"/tenants", "ID\tNAME\tJOB", func(w *tabwriter.Writer, item map[string]interface{}) {
			fmt.Fprintf(w, "%v\t%v\t%v\n", item["id"], item["name"], item["job"])
		})
	default:
		fmt.Printf("unknown house command: %s\n", args[0])
	}
}

func handleTenant(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: homerental tenant <list|create|get>")
		return
	}

	switch args[0] {
	case "list":
		listResource("/tenants", "ID\tNAME\tJOB\tUSER", func(w *tabwriter.Writer, item map[string]interface{}) {
			fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", item["id"], item["name"], item["job"], item["userId"])
		})
	case "create":
		createTenant(args[1:])
	case "get":
		getResource("/tenants", args[1:])
	default:
		fmt.Printf("unknown tenant command: %s\n", args[0])
	}
}

func handleRental(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: homerental rental <list|create|get|delete>")
		return
	}

	switch args[0] {
	case "list":
		listResource("/rentals", "ID\tSTART\tEND\tPRICE\tHOUSE", func(w *tabwriter.Writer, item map[string]interface{}) {
			fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", item["id"], item["startDate"], item["endDate"], item["priceAnnual"], item["houseId"])
		})
	case "create":
		createRental(args[1:])
	case "get":
		getResource("/rentals", args[1:])
	case "delete":
		deleteResource("/rentals", args[1:])
	default:
		fmt.Printf("unknown rental command: %s\n", args[0])
	}
}

// Auth commands
func registerUser(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	age := fs.Int("age", 0, "age")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *username == "" || *password == "" || *age == 0 {
		fmt.Println("Error: username, age, and password are required")
		fs.PrintDefaults()
		return
	}

	result, status, err := postJSON("/users", map[string]interface{}{
		"username": *username,
		"age":      *age,
		"password": *password,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ User registered: %s\n", *username)
	} else {
		fmt.Printf("✗ Registration failed: %v\n", result)
	}
}

func loginUser(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *username == "" || *password == "" {
		fmt.Println("Error: username and password are required")
		fs.PrintDefaults()
		return
	}

	result, status, err := postJSON("/login", map[string]interface{}{
		"username": *username,
		"password": *password,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusOK {
		if token, ok := result["token"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Logged in as: %s\n", *username)
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result)
	}
}

func logoutUser() {
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	token := loadToken()
	if token == "" {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("✓ Logged in (token: %s...)\n", token[:20])
}

// Resource commands
func createHouse(args []string) {
	fs := flag.NewFlagSet("house create", flag.ExitOnError)
	address := fs.String("address", "", "street address")
	city := fs.String("city", "", "city")
	rooms := fs.Int("rooms", 0, "number of rooms")
	fs.Parse(args)

	if *address == "" || *city == "" {
		fmt.Println("Error: address and city are required")
		fs.PrintDefaults()
		return
	}

	result, status, err := postJSON("/houses", map[string]interface{}{
		"address":       *address,
		"city":          *city,
		"numberOfRooms": *rooms,
	})
	reportCreate("House", result, status, err)
}

func createTenant(args []string) {
	fs := flag.NewFlagSet("tenant create", flag.ExitOnError)
	name := fs.String("name", "", "tenant name")
	phone := fs.Int("phone", 0, "phone number")
	job := fs.String("job", "", "occupation")
	userID := fs.Int("user", 0, "backing user id")
	fs.Parse(args)

	if *name == "" || *userID == 0 {
		fmt.Println("Error: name and user are required")
		fs.PrintDefaults()
		return
	}

	result, status, err := postJSON("/tenants", map[string]interface{}{
		"name":   *name,
		"phone":  *phone,
		"job":    *job,
		"userId": *userID,
	})
	reportCreate("Tenant", result, status, err)
}

func createRental(args []string) {
	fs := flag.NewFlagSet("rental create", flag.ExitOnError)
	start := fs.String("start", "", "start date (dd/mm/yyyy)")
	end := fs.String("end", "", "end date (dd/mm/yyyy)")
	price := fs.Int("price", 0, "annual price")
	deposit := fs.Int("deposit", 0, "deposit")
	contact := fs.String("contact", "", "contact person")
	houseID := fs.Int("house", 0, "house id")
	tenantIDs := fs.String("tenants", "", "comma-separated tenant ids")
	fs.Parse(args)

	if *start == "" || *end == "" || *houseID == 0 {
		fmt.Println("Error: start, end, and house are required")
		fs.PrintDefaults()
		return
	}

	var ids []int
	for _, s := range strings.Split(*tenantIDs, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		var id int
		if _, err := fmt.Sscanf(s, "%d", &id); err == nil {
			ids = append(ids, id)
		}
	}

	result, status, err := postJSON("/rentals", map[string]interface{}{
		"startDate":     *start,
		"endDate":       *end,
		"priceAnnual":   *price,
		"deposit":       *deposit,
		"contactPerson": *contact,
		"houseId":       *houseID,
		"tenantIds":     ids,
	})
	reportCreate("Rental", result, status, err)
}

func reportCreate(what string, result map[string]interface{}, status int, err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if status == http.StatusCreated {
		fmt.Printf("✓ %s created: id %v\n", what, result["id"])
	} else {
		fmt.Printf("✗ %s create failed: %v\n", what, result)
	}
}

func listResource(path, header string, row func(*tabwriter.Writer, map[string]interface{})) {
	req, _ := http.NewRequest(http.MethodGet, getAPIURL()+path, nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Request failed: %v\n", result)
		return
	}

	var items []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&items)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	for _, item := range items {
		row(w, item)
	}
	w.Flush()
}

func getResource(path string, args []string) {
	if len(args) < 1 {
		fmt.Printf("Usage: homerental %s get <id>\n", strings.Trim(path, "/"))
		return
	}
	req, _ := http.NewRequest(http.MethodGet, getAPIURL()+path+"/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("✗ Request failed: %v\n", result)
		return
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

func deleteResource(path string, args []string) {
	if len(args) < 1 {
		fmt.Printf("Usage: homerental %s delete <id>\n", strings.Trim(path, "/"))
		return
	}
	req, _ := http.NewRequest(http.MethodDelete, getAPIURL()+path+"/"+args[0], nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		fmt.Println("✓ Deleted")
	} else {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Delete failed: %v\n", result)
	}
}

// Helper functions
func postJSON(path string, payload map[string]interface{}) (map[string]interface{}, int, error) {
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, getAPIURL()+path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return result, resp.StatusCode, nil
}

func getAPIURL() string {
	if url := os.Getenv("HOMERENTAL_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.homerental/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.homerental", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`HomeRental CLI

Usage:
  homerental <command> [options]

Commands:
  auth     User authentication (register, login, logout, who)
  user     User operations (list, get, delete, rentals)
  house    House operations (list, create, get, tenants)
  tenant   Tenant operations (list, create, get)
  rental   Rental operations (list, create, get, delete)
  help     Show this help message

Environment Variables:
  HOMERENTAL_API    API endpoint (default: http://localhost:8080/api)

Examples:
  homerental auth register -username alice -age 30 -password secret
  homerental auth login -username alice -password secret
  homerental house create -address "1 Main St" -city Springfield -rooms 3
  homerental rental create -start 01/01/2025 -end 31/12/2025 -price 12000 -house 1 -tenants 1,2
`)
}
